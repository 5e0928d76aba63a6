// Package goodbot recognizes known legitimate crawlers by User-Agent, per
// SPEC_FULL.md §9: allowlist membership only annotates a matched
// botUserAgent signal's reason text; it never changes weight, score, or
// verdict.
package goodbot

import (
	"regexp"
	"strings"
)

type entry struct {
	name    string
	pattern *regexp.Regexp
}

var knownGood = []entry{
	{"Googlebot", regexp.MustCompile(`(?i)googlebot|google\s*web\s*preview|mediapartners-google|adsbot-google`)},
	{"Bingbot", regexp.MustCompile(`(?i)bingbot|msnbot|bingpreview`)},
	{"Yahoo Slurp", regexp.MustCompile(`(?i)slurp|yahoo`)},
	{"DuckDuckBot", regexp.MustCompile(`(?i)duckduckbot|duckduckgo`)},
	{"Baiduspider", regexp.MustCompile(`(?i)baiduspider|baidu`)},
	{"Yandexbot", regexp.MustCompile(`(?i)yandexbot|yandex`)},

	{"Facebookbot", regexp.MustCompile(`(?i)facebookexternalhit|facebot|facebook`)},
	{"Twitterbot", regexp.MustCompile(`(?i)twitterbot|twitter`)},
	{"LinkedInBot", regexp.MustCompile(`(?i)linkedinbot|linkedin`)},
	{"Pinterest", regexp.MustCompile(`(?i)pinterest`)},
	{"WhatsApp", regexp.MustCompile(`(?i)whatsapp`)},
	{"Telegram", regexp.MustCompile(`(?i)telegrambot`)},
	{"Discord", regexp.MustCompile(`(?i)discordbot`)},
	{"Slack", regexp.MustCompile(`(?i)slackbot|slack-imgproxy`)},

	{"Ahrefs", regexp.MustCompile(`(?i)ahrefsbot`)},
	{"Semrush", regexp.MustCompile(`(?i)semrushbot`)},
	{"Moz", regexp.MustCompile(`(?i)rogerbot|moz\.com`)},

	{"Pingdom", regexp.MustCompile(`(?i)pingdom`)},
	{"UptimeRobot", regexp.MustCompile(`(?i)uptimerobot`)},
	{"StatusCake", regexp.MustCompile(`(?i)statuscake`)},
	{"GTmetrix", regexp.MustCompile(`(?i)gtmetrix`)},

	{"Feedly", regexp.MustCompile(`(?i)feedly`)},
	{"Feedbin", regexp.MustCompile(`(?i)feedbin`)},

	{"Apple Bot", regexp.MustCompile(`(?i)applebot`)},
	{"Archive.org", regexp.MustCompile(`(?i)archive\.org|ia_archiver`)},
}

// Name returns the known-good crawler name matching ua, or "" if ua
// doesn't belong to the allowlist.
func Name(ua string) string {
	if ua == "" {
		return ""
	}
	lower := strings.ToLower(ua)
	for _, b := range knownGood {
		if b.pattern.MatchString(lower) {
			return b.name
		}
	}
	return ""
}

// Annotate appends a "(known-good: Name)" suffix to reason when ua
// matches the allowlist, leaving reason untouched otherwise.
func Annotate(reason, ua string) string {
	if name := Name(ua); name != "" {
		return reason + " (known-good: " + name + ")"
	}
	return reason
}
