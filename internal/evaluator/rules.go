package evaluator

import (
	"net/http"
	"strings"
)

// botPatterns is the canonical, fixed, case-insensitive substring list from
// spec.md §4.1. Order matters: the first match's identifier is preserved in
// the signal's reason string.
var botPatterns = []string{
	"python", "curl", "wget", "axios", "node-fetch", "go-http", "java/",
	"libwww", "httpunit", "nutch", "phpcrawl", "msnbot", "scrapy",
	"mechanize", "phantom", "casper", "selenium", "webdriver",
	"chrome-lighthouse", "pingdom", "phantomjs", "headlesschrome",
	"httpie", "postman", "insomnia", "rest-client", "okhttp", "apache-http",
}

// auxiliaryCrawlerPatterns is the auxiliary crawler list spec.md §4.1
// gestures at with "…" — additional known crawler identifiers, checked
// after the primary list.
var auxiliaryCrawlerPatterns = []string{
	"heritrix", "httrack", "teoma", "gigablast", "ia_archiver", "ezooms",
	"linkdex", "mj12bot", "dotbot", "seznambot", "sogou", "exabot",
}

// matchBotPattern returns the first pattern from the canonical list (primary
// then auxiliary) that occurs in the lowercased user agent, or "" if none
// match.
func matchBotPattern(uaLower string) string {
	for _, p := range botPatterns {
		if strings.Contains(uaLower, p) {
			return p
		}
	}
	for _, p := range auxiliaryCrawlerPatterns {
		if strings.Contains(uaLower, p) {
			return p
		}
	}
	return ""
}

// isChromeUA reports whether the UA names the Chrome/Chromium engine
// without being one of the derivative browsers that also mention it
// (Edge, Opera), used by the "Chrome only" rule gates in spec.md §4.2.
func isChromeUA(uaLower string) bool {
	if !strings.Contains(uaLower, "chrome") {
		return false
	}
	if strings.Contains(uaLower, "edg/") || strings.Contains(uaLower, "edge/") {
		return false
	}
	if strings.Contains(uaLower, "opr/") || strings.Contains(uaLower, "opera") {
		return false
	}
	return true
}

// headerFacts captures the raw observations shared by both the Header
// Evaluator (spec.md §4.1) and the Signal Evaluator's header rules
// (spec.md §4.2), computed once per request.
type headerFacts struct {
	userAgent         string
	hasUA             bool
	accept            string
	hasAccept         bool
	acceptLanguage    string
	hasAcceptLanguage bool
	hasAcceptEncoding bool
	hasSecFetch       bool
	hasSecChUa        bool
	hasConnection     bool
	hasUpgradeInsec   bool
	hasCacheControl   bool
	botMatch          string
}

func collectHeaderFacts(h http.Header) headerFacts {
	ua := h.Get("User-Agent")
	_, hasAccept := h["Accept"]
	_, hasAcceptLanguage := h["Accept-Language"]
	_, hasAcceptEncoding := h["Accept-Encoding"]
	_, hasConnection := h["Connection"]
	_, hasUpgradeInsec := h["Upgrade-Insecure-Requests"]
	_, hasCacheControl := h["Cache-Control"]

	hasSecFetch := h.Get("Sec-Fetch-Dest") != "" || h.Get("Sec-Fetch-Mode") != "" || h.Get("Sec-Fetch-Site") != ""
	hasSecChUa := h.Get("Sec-CH-UA") != ""

	return headerFacts{
		userAgent:         ua,
		hasUA:             ua != "",
		accept:            h.Get("Accept"),
		hasAccept:         hasAccept,
		acceptLanguage:    h.Get("Accept-Language"),
		hasAcceptLanguage: hasAcceptLanguage,
		hasAcceptEncoding: hasAcceptEncoding,
		hasSecFetch:       hasSecFetch,
		hasSecChUa:        hasSecChUa,
		hasConnection:     hasConnection,
		hasUpgradeInsec:   hasUpgradeInsec,
		hasCacheControl:   hasCacheControl,
		botMatch:          matchBotPattern(strings.ToLower(ua)),
	}
}

func sig(name string, weight int, detected bool, reason, category string) Signal {
	return Signal{Name: name, Weight: weight, Detected: detected, Reason: reason, Category: category}
}
