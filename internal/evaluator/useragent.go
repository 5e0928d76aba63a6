package evaluator

import (
	"strings"

	"github.com/mssola/useragent"
)

// parsedHeaderUA is the independently-parsed opinion of the request's
// User-Agent string, used only to corroborate the literal substring rules
// below (see SPEC_FULL.md §4.6). It never contributes its own weight.
type parsedHeaderUA struct {
	os     string
	mobile bool
	bot    bool
}

func parseHeaderUA(ua string) parsedHeaderUA {
	if ua == "" {
		return parsedHeaderUA{}
	}
	p := useragent.New(ua)
	return parsedHeaderUA{
		os:     p.OS(),
		mobile: p.Mobile(),
		bot:    p.Bot(),
	}
}

// uaNamesOS reports whether the raw UA string names one of the desktop OS
// families spec.md §4.2's platformMismatch rule cross-checks against.
func uaNamesOS(uaLower string) (windows, mac, linux bool) {
	windows = strings.Contains(uaLower, "windows")
	mac = strings.Contains(uaLower, "mac os") || strings.Contains(uaLower, "macintosh")
	linux = strings.Contains(uaLower, "linux") && !strings.Contains(uaLower, "android")
	return
}

// uaIsMobile reports whether the raw UA string looks like a mobile device,
// corroborated by the mssola/useragent parse.
func uaIsMobile(uaLower string, parsed parsedHeaderUA) bool {
	if parsed.mobile {
		return true
	}
	return strings.Contains(uaLower, "mobile") || strings.Contains(uaLower, "android") || strings.Contains(uaLower, "iphone")
}
