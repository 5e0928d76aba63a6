package evaluator

import (
	"fmt"
	"net/http"
	"strings"
)

// Header Evaluator weights, spec.md §4.1. Kept distinct from the Signal
// Evaluator's header weights (the sw* header constants in signal.go) per the
// §9 open-question resolution: the two evaluators duplicate rule names
// with different weights on purpose and must not share a table.
const (
	hwNoUserAgent        = 30
	hwShortUserAgent     = 15
	hwBotUserAgent       = 30
	hwHeadlessUA         = 25
	hwNoAcceptHeader     = 10
	hwNonBrowserAccept   = 10
	hwNoAcceptLanguage   = 15
	hwNoAcceptEncoding   = 10
	hwNoSecFetch         = 15
	hwNoSecChUa          = 8
	hwNoConnection       = 5
	hwNoUpgradeInsecure  = 5
)

// EvaluateHeaders scores request headers alone, per spec.md §4.1. It is
// applied to every non-static, non-document, non-analysis-endpoint request.
func EvaluateHeaders(h http.Header) Verdict {
	f := collectHeaderFacts(h)
	ua := f.userAgent
	uaLower := strings.ToLower(ua)

	all := make([]Signal, 0, 12)

	all = append(all, sig("noUserAgent", hwNoUserAgent, !f.hasUA,
		notDetectedOr(!f.hasUA, "User-Agent header present", "User-Agent header absent"), CategoryHeaders))

	shortUA := f.hasUA && len(ua) > 0 && len(ua) < 20
	all = append(all, sig("shortUserAgent", hwShortUserAgent, shortUA,
		notDetectedOr(shortUA, fmt.Sprintf("User-Agent length %d is within normal range", len(ua)), fmt.Sprintf("User-Agent length %d is suspiciously short", len(ua))),
		CategoryHeaders))

	botDetected := f.botMatch != ""
	botReason := "User-Agent does not match any known bot pattern"
	if botDetected {
		botReason = fmt.Sprintf("User-Agent matches known bot pattern %q", f.botMatch)
	}
	all = append(all, sig("botUserAgent", hwBotUserAgent, botDetected, botReason, CategoryHeaders))

	headless := strings.Contains(uaLower, "headless")
	all = append(all, sig("headlessUA", hwHeadlessUA, headless,
		notDetectedOr(headless, "User-Agent does not mention headless", "User-Agent mentions headless"), CategoryHeaders))

	all = append(all, sig("noAcceptHeader", hwNoAcceptHeader, !f.hasAccept,
		notDetectedOr(!f.hasAccept, "Accept header present", "Accept header absent"), CategoryHeaders))

	nonBrowserAccept := f.hasAccept && !strings.Contains(strings.ToLower(f.accept), "text/html") && !strings.Contains(f.accept, "*/*")
	all = append(all, sig("nonBrowserAccept", hwNonBrowserAccept, nonBrowserAccept,
		notDetectedOr(nonBrowserAccept, "Accept header names a browser-compatible type", "Accept header lacks text/html and */*"), CategoryHeaders))

	all = append(all, sig("noAcceptLanguage", hwNoAcceptLanguage, !f.hasAcceptLanguage,
		notDetectedOr(!f.hasAcceptLanguage, "Accept-Language header present", "Accept-Language header absent"), CategoryHeaders))

	all = append(all, sig("noAcceptEncoding", hwNoAcceptEncoding, !f.hasAcceptEncoding,
		notDetectedOr(!f.hasAcceptEncoding, "Accept-Encoding header present", "Accept-Encoding header absent"), CategoryHeaders))

	all = append(all, sig("noSecFetch", hwNoSecFetch, !f.hasSecFetch,
		notDetectedOr(!f.hasSecFetch, "At least one Sec-Fetch-* header present", "All Sec-Fetch-* headers absent"), CategoryHeaders))

	all = append(all, sig("noSecChUa", hwNoSecChUa, !f.hasSecChUa,
		notDetectedOr(!f.hasSecChUa, "Sec-CH-UA header present", "Sec-CH-UA header absent"), CategoryHeaders))

	all = append(all, sig("noConnection", hwNoConnection, !f.hasConnection,
		notDetectedOr(!f.hasConnection, "Connection header present", "Connection header absent"), CategoryHeaders))

	all = append(all, sig("noUpgradeInsecure", hwNoUpgradeInsecure, !f.hasUpgradeInsec,
		notDetectedOr(!f.hasUpgradeInsec, "Upgrade-Insecure-Requests header present", "Upgrade-Insecure-Requests header absent"), CategoryHeaders))

	return assemble(all)
}

func notDetectedOr(detected bool, notDetectedText, detectedText string) string {
	if detected {
		return detectedText
	}
	return notDetectedText
}
