package evaluator_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/sentinel/internal/evaluator"
)

func TestEvaluateHeaders_EmptyCurl(t *testing.T) {
	h := http.Header{}
	h.Set("User-Agent", "curl/8.1.2")

	v := evaluator.EvaluateHeaders(h)

	require.Equal(t, 100, v.Score)
	assert.Equal(t, evaluator.VerdictBot, v.Verdict)
	assert.Equal(t, evaluator.ConfidenceHigh, v.Confidence)

	detected := make(map[string]bool)
	for _, s := range v.Signals {
		detected[s.Name] = true
	}
	for _, name := range []string{
		"botUserAgent", "shortUserAgent", "noAcceptHeader", "noAcceptLanguage",
		"noAcceptEncoding", "noSecFetch", "noSecChUa", "noConnection", "noUpgradeInsecure",
	} {
		assert.True(t, detected[name], "expected %s to be detected", name)
	}
}

func TestEvaluateHeaders_RealBrowser(t *testing.T) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	h.Set("Accept", "text/html,application/xhtml+xml")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Ch-Ua", `"Chromium";v="120"`)
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")

	v := evaluator.EvaluateHeaders(h)

	assert.Equal(t, 0, v.Score)
	assert.Equal(t, evaluator.VerdictHuman, v.Verdict)
	assert.Len(t, v.Signals, 0)
}

func TestEvaluateHeaders_SummaryInvariant(t *testing.T) {
	h := http.Header{}
	h.Set("User-Agent", "curl/8.1.2")
	v := evaluator.EvaluateHeaders(h)

	assert.Equal(t, len(v.AllSignals), v.Summary.TotalChecks)
	assert.Equal(t, len(v.Signals), v.Summary.Flagged)
	assert.Equal(t, v.Summary.TotalChecks, v.Summary.Flagged+v.Summary.Passed)

	for _, s := range v.AllSignals {
		assert.NotEmpty(t, s.Reason, "signal %s has an empty reason", s.Name)
	}
}
