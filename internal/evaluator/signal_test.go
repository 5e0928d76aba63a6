package evaluator_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/sentinel/internal/evaluator"
)

func TestEarlyReject_EmptyBundle(t *testing.T) {
	v := evaluator.EarlyReject(evaluator.Bundle{})
	require.NotNil(t, v)

	assert.Equal(t, evaluator.VerdictBot, v.Verdict)
	assert.Equal(t, 100, v.Score)
	assert.Equal(t, evaluator.CodeAnalysisWithoutPrerequisite, v.Code)
	require.Len(t, v.Signals, 1)
	assert.Equal(t, "jsExecutionFailed", v.Signals[0].Name)
	assert.Equal(t, 100, v.Signals[0].Weight)
	assert.Equal(t, evaluator.CategoryAutomation, v.Signals[0].Category)
}

func TestEarlyReject_MissingChallengeTakesPrecedence(t *testing.T) {
	bundle := richCleanBundle()
	delete(bundle, "jsChallenge")

	v := evaluator.EarlyReject(bundle)
	require.NotNil(t, v, "a clean bundle missing jsChallenge must still early-reject")
	assert.Equal(t, evaluator.CodeAnalysisWithoutPrerequisite, v.Code)
	assert.Equal(t, evaluator.VerdictBot, v.Verdict)
}

func TestEarlyReject_CompleteBundlePassesThrough(t *testing.T) {
	bundle := richCleanBundle()
	v := evaluator.EarlyReject(bundle)
	assert.Nil(t, v)
}

func TestEvaluateSignals_HeadlessChromeFingerprint(t *testing.T) {
	bundle := evaluator.Bundle{
		"screen":    map[string]interface{}{"width": float64(1920), "height": float64(1080)},
		"window":    map[string]interface{}{"innerWidth": float64(1920), "innerHeight": float64(1080)},
		"navigator": map[string]interface{}{"userAgent": "Mozilla/5.0 HeadlessChrome/120.0.0.0", "webdriver": true},
		"webgl":     map[string]interface{}{"unmaskedRenderer": "Google SwiftShader"},
		"plugins":   map[string]interface{}{"length": float64(0)},
		"jsChallenge": map[string]interface{}{"valid": true},
	}

	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 HeadlessChrome/120.0.0.0")

	v := evaluator.EvaluateSignals(bundle, h)

	detected := make(map[string]bool)
	for _, s := range v.Signals {
		detected[s.Name] = true
	}
	for _, name := range []string{"webdriver", "headlessUA", "softwareRenderer", "missingChrome", "noPlugins", "botUserAgent"} {
		assert.True(t, detected[name], "expected %s to be detected", name)
	}
	assert.Equal(t, 100, v.Score, "score should be capped at 100")
	assert.Equal(t, evaluator.VerdictBot, v.Verdict)
}

func TestVerdict_UniversalInvariants(t *testing.T) {
	bundle := richCleanBundle()
	h := http.Header{}
	h.Set("User-Agent", bundle.NavigatorUserAgent())
	h.Set("Accept", "text/html")
	h.Set("Accept-Language", "en-US")
	h.Set("Accept-Encoding", "gzip")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Ch-Ua", `"Chromium";v="120"`)

	v := evaluator.EvaluateSignals(bundle, h)

	sum := 0
	for _, s := range v.AllSignals {
		if s.Detected {
			sum += s.Weight
		}
	}
	expected := sum
	if expected > 100 {
		expected = 100
	}
	assert.Equal(t, expected, v.Score)
	assert.Equal(t, v.Summary.TotalChecks, len(v.AllSignals))
	assert.Equal(t, v.Summary.Flagged, len(v.Signals))
	assert.Equal(t, v.Summary.TotalChecks, v.Summary.Flagged+v.Summary.Passed)
}

// richCleanBundle returns a browser-environment bundle describing a
// well-behaved desktop Chrome session with a valid challenge outcome, used
// as the baseline for early-reject precedence tests.
func richCleanBundle() evaluator.Bundle {
	return evaluator.Bundle{
		"screen":    map[string]interface{}{"width": float64(1920), "height": float64(1080), "colorDepth": float64(24), "devicePixelRatio": float64(1)},
		"window":    map[string]interface{}{"innerWidth": float64(1903), "innerHeight": float64(960), "outerWidth": float64(1920), "outerHeight": float64(1040)},
		"navigator": map[string]interface{}{"userAgent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0", "language": "en-US", "languages": []interface{}{"en-US", "en"}, "platform": "Win32", "vendor": "Google Inc.", "product": "Gecko", "appName": "Netscape", "webdriver": false},
		"jsChallenge": map[string]interface{}{"valid": true, "solveTime": float64(500)},
	}
}
