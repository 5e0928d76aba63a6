package evaluator

import (
	"fmt"
	"math"
	"net/http"
	"strings"
)

// Signal Evaluator weights, spec.md §4.2. Automation.
const (
	swWebdriver       = 30
	swPhantom         = 30
	swNightmare       = 30
	swSelenium        = 30
	swDomAutomation   = 30
	swHeadlessUA      = 25
	swNoBrowserData   = 50
	swJsChallengeFail = 35
)

// Essential data (only evaluated when noBrowserData is false).
const (
	swNoScreenData    = 25
	swNoWindowData    = 20
	swNoNavigatorData = 25
	swNoTimezoneData  = 15
)

// Browser features.
const (
	swNoPlugins          = 15
	swNoLanguages        = 15
	swMissingChrome      = 20
	swNoPermissionsAPI   = 10
	swNoNotifications    = 5
	swNoWebRTC           = 8
	swNoIndexedDB        = 8
	swNoLocalStorage     = 10
	swNoSessionStorage   = 10
	swNoBattery          = 2
	swNoMediaDevices     = 5
	swZeroMediaDevices   = 8
	swNoSpeechVoices     = 3
	swNoConnectionAPI    = 5
	swNoFonts            = 10
	swFewFonts           = 5
	swNoCanvasHash       = 8
	swAudioError         = 5
	swNoPerformanceMem   = 5
	swDocumentHidden     = 8
	swNoGamepadAPI       = 2
	swKeyboardAPIError   = 5
	swNoServiceWorker    = 3
	swNoWebAssembly      = 5
	swNoBluetooth        = 2
	swNoUSB              = 2
	swNoCredentials      = 3
)

// WebGL.
const (
	swSoftwareRenderer  = 20
	swNoWebGLRenderer   = 10
	swSoftwareVendor    = 15
	swNoWebGLExtensions = 8
	swNoWebGL2          = 3
)

// Screen.
const (
	swZeroScreenSize    = 15
	swDefaultScreenSize = 10
	swNoWindowChrome    = 10
	swUnusualDPR        = 5
	swLowColorDepth     = 5
)

// Consistency.
const (
	swMobileNoTouch        = 15
	swDesktopTouchMismatch = 5
	swNavigatorInconsist   = 5
	swUaMismatch           = 20
	swLanguageMismatch     = 10
	swPlatformMismatch     = 15
	swTimezoneInconsistent = 10
	swClientHintsMismatch  = 15
	swVendorMismatch       = 10
	swProductInconsistent  = 3
)

// Timing.
const (
	swTimingSuspicious = 10
	swNegativeLoadTime = 20
	swZeroLoadTime     = 15
)

// Fingerprint.
const (
	swMathInconsistent = 10
)

// Headers, as reused inside the signal-evaluator path (distinct weights
// from the Header Evaluator's table, per spec.md §9 open question).
const (
	swNoAcceptLanguage = 10
	swNoAcceptHeader   = 5
	swBotUserAgent     = 25
	swShortUserAgent   = 15
	swNoSecFetch       = 8
	swNoSecChUa        = 8
	swNoConnectionHdr  = 3
	swNoCacheControl   = 2
)

const mathAcosHalf = 1.0471975511965979

// EarlyReject implements spec.md §4.2's early-reject path. It returns a
// synthetic bot verdict when the bundle lacks a prerequisite, or nil when
// the Signal Evaluator should run normally.
func EarlyReject(b Bundle) *Verdict {
	hasScreenWidth := b.getNumber("screen.width", 0) > 0
	hasUA := b.getString("navigator.userAgent", "") != ""
	hasWindow := b.has("window")
	challengeValid := b.getBool("jsChallenge.valid", false)

	if hasScreenWidth && hasUA && hasWindow && challengeValid {
		return nil
	}

	v := assemble([]Signal{
		sig("jsExecutionFailed", 100, true,
			"Prerequisite browser evidence or a valid JS challenge outcome is missing", CategoryAutomation),
	})
	v.Code = CodeAnalysisWithoutPrerequisite
	v.Verdict = VerdictBot
	v.Score = 100
	v.Confidence = ConfidenceHigh
	return &v
}

// EvaluateSignals is the Signal Evaluator: a pure function of (bundle,
// headers) producing a Verdict, per spec.md §4.2.
func EvaluateSignals(b Bundle, h http.Header) Verdict {
	var all []Signal

	f := collectHeaderFacts(h)
	ua := f.userAgent
	uaLower := strings.ToLower(ua)
	parsed := parseHeaderUA(ua)

	all = append(all, automationSignals(b, f, uaLower)...)

	hasScreen := b.has("screen")
	hasWindow := b.has("window")
	hasNavigator := b.has("navigator")
	noBrowserDataDetected := !hasScreen && !hasWindow && !hasNavigator

	if !noBrowserDataDetected {
		all = append(all, essentialDataSignals(b, hasScreen, hasWindow, hasNavigator)...)
	}

	all = append(all, browserFeatureSignals(b, uaLower)...)
	all = append(all, webglSignals(b, uaLower)...)
	all = append(all, screenSignals(b)...)
	all = append(all, consistencySignals(b, f, uaLower, parsed)...)
	all = append(all, timingSignals(b)...)
	all = append(all, fingerprintSignals(b)...)
	all = append(all, signalHeaderSignals(f, uaLower)...)

	return assemble(all)
}

func automationSignals(b Bundle, f headerFacts, uaLower string) []Signal {
	webdriver := b.getBool("navigator.webdriver", false)
	phantom := b.getBool("features.phantom", false)
	nightmare := b.getBool("features.nightmare", false)
	selenium := b.getBool("features.selenium", false)
	domAutomation := b.getBool("features.domAutomation", false)
	headless := strings.Contains(uaLower, "headless")

	hasScreen := b.has("screen")
	hasWindow := b.has("window")
	hasNavigator := b.has("navigator")
	noBrowserData := !hasScreen && !hasWindow && !hasNavigator

	challengeValid := b.getBool("jsChallenge.valid", false)
	hasChallenge := b.has("jsChallenge")
	challengeFailed := !hasChallenge || !challengeValid

	return []Signal{
		sig("webdriver", swWebdriver, webdriver,
			notDetectedOr(webdriver, "navigator.webdriver is not true", "navigator.webdriver reports true"), CategoryAutomation),
		sig("phantom", swPhantom, phantom,
			notDetectedOr(phantom, "No PhantomJS marker detected", "PhantomJS automation marker detected"), CategoryAutomation),
		sig("nightmare", swNightmare, nightmare,
			notDetectedOr(nightmare, "No Nightmare marker detected", "Nightmare automation marker detected"), CategoryAutomation),
		sig("selenium", swSelenium, selenium,
			notDetectedOr(selenium, "No Selenium marker detected", "Selenium automation marker detected"), CategoryAutomation),
		sig("domAutomation", swDomAutomation, domAutomation,
			notDetectedOr(domAutomation, "No DOM automation marker detected", "DOM automation marker detected"), CategoryAutomation),
		sig("headlessUA", swHeadlessUA, headless,
			notDetectedOr(headless, "User-Agent does not mention headless", "User-Agent mentions headless"), CategoryAutomation),
		sig("noBrowserData", swNoBrowserData, noBrowserData,
			notDetectedOr(noBrowserData, "Bundle contains at least one of screen/window/navigator", "Bundle lacks screen, window, and navigator data entirely"), CategoryAutomation),
		sig("jsChallengeFailed", swJsChallengeFail, challengeFailed,
			notDetectedOr(challengeFailed, "JS challenge outcome is valid", "JS challenge outcome is absent or invalid"), CategoryAutomation),
	}
}

func essentialDataSignals(b Bundle, hasScreen, hasWindow, hasNavigator bool) []Signal {
	hasTimezone := b.has("timezone")
	return []Signal{
		sig("noScreenData", swNoScreenData, !hasScreen,
			notDetectedOr(!hasScreen, "screen data present", "screen data missing"), CategoryAutomation),
		sig("noWindowData", swNoWindowData, !hasWindow,
			notDetectedOr(!hasWindow, "window data present", "window data missing"), CategoryAutomation),
		sig("noNavigatorData", swNoNavigatorData, !hasNavigator,
			notDetectedOr(!hasNavigator, "navigator data present", "navigator data missing"), CategoryAutomation),
		sig("noTimezoneData", swNoTimezoneData, !hasTimezone,
			notDetectedOr(!hasTimezone, "timezone data present", "timezone data missing"), CategoryAutomation),
	}
}

func browserFeatureSignals(b Bundle, uaLower string) []Signal {
	chrome := isChromeUA(uaLower)

	pluginsCount := b.getNumber("plugins.length", 0)
	noPlugins := pluginsCount == 0
	languagesLen := b.getArrayLen("navigator.languages")
	noLanguages := languagesLen <= 0

	missingChrome := chrome && !b.getBool("features.windowChrome", false)

	noPermissions := !b.getBool("features.permissionsQuery", false)
	noNotifications := !b.getBool("features.notifications", false)
	noWebRTC := !b.getBool("features.webRTC", false)
	noIndexedDB := !b.getBool("features.indexedDB", false)
	noLocalStorage := !b.getBool("features.localStorage", false)
	noSessionStorage := !b.getBool("features.sessionStorage", false)
	noBattery := b.getString("battery.error", "") != ""

	hasMediaDevices := b.has("mediaDevices")
	mediaDevicesErr := b.getString("mediaDevices.error", "") != ""
	noMediaDevices := !hasMediaDevices || mediaDevicesErr
	zeroMediaDevices := hasMediaDevices && !mediaDevicesErr &&
		b.getNumber("mediaDevices.audioinput", 0) == 0 &&
		b.getNumber("mediaDevices.audiooutput", 0) == 0 &&
		b.getNumber("mediaDevices.videoinput", 0) == 0

	noSpeechVoices := b.getNumber("speechVoices.count", 0) == 0
	noConnectionAPI := chrome && !b.has("connection")

	fontsCount := b.getNumber("fonts.length", 0)
	noFonts := fontsCount == 0
	fewFonts := fontsCount >= 1 && fontsCount <= 4

	noCanvasHash := b.getString("canvas.hash", "") == "" || b.getString("canvas.error", "") != ""
	audioError := b.getString("audio.error", "") != ""

	noPerfMemory := chrome && !b.has("performance.jsHeapSizeLimit")

	documentHidden := b.getBool("document.hidden", false)
	noGamepad := !b.getBool("gamepads.supported", false)
	keyboardErr := b.getString("keyboard.error", "") != ""
	noServiceWorker := !b.getBool("features.serviceWorker", false)
	noWebAssembly := !b.getBool("features.WebAssembly", false)
	noBluetooth := !b.getBool("features.bluetooth", false)
	noUSB := !b.getBool("features.usb", false)
	noCredentials := !b.getBool("features.credentials", false)

	out := []Signal{
		sig("noPlugins", swNoPlugins, noPlugins,
			notDetectedOr(noPlugins, "Browser reports installed plugins", "No browser plugins reported"), CategoryBrowserFeatures),
		sig("noLanguages", swNoLanguages, noLanguages,
			notDetectedOr(noLanguages, "navigator.languages is populated", "navigator.languages is empty or missing"), CategoryBrowserFeatures),
		sig("missingChrome", swMissingChrome, missingChrome,
			notDetectedOr(missingChrome, "window.chrome present as expected for Chrome UA", "Chrome UA but window.chrome missing"), CategoryBrowserFeatures),
		sig("noPermissionsAPI", swNoPermissionsAPI, noPermissions,
			notDetectedOr(noPermissions, "Permissions API available", "Permissions API unavailable"), CategoryBrowserFeatures),
		sig("noNotifications", swNoNotifications, noNotifications,
			notDetectedOr(noNotifications, "Notifications API available", "Notifications API unavailable"), CategoryBrowserFeatures),
		sig("noWebRTC", swNoWebRTC, noWebRTC,
			notDetectedOr(noWebRTC, "WebRTC available", "WebRTC unavailable"), CategoryBrowserFeatures),
		sig("noIndexedDB", swNoIndexedDB, noIndexedDB,
			notDetectedOr(noIndexedDB, "IndexedDB available", "IndexedDB unavailable"), CategoryBrowserFeatures),
		sig("noLocalStorage", swNoLocalStorage, noLocalStorage,
			notDetectedOr(noLocalStorage, "localStorage available", "localStorage unavailable"), CategoryBrowserFeatures),
		sig("noSessionStorage", swNoSessionStorage, noSessionStorage,
			notDetectedOr(noSessionStorage, "sessionStorage available", "sessionStorage unavailable"), CategoryBrowserFeatures),
		sig("noBattery", swNoBattery, noBattery,
			notDetectedOr(noBattery, "Battery API available", "Battery API unavailable"), CategoryBrowserFeatures),
		sig("noMediaDevices", swNoMediaDevices, noMediaDevices,
			notDetectedOr(noMediaDevices, "mediaDevices available", "mediaDevices unavailable"), CategoryBrowserFeatures),
		sig("zeroMediaDevices", swZeroMediaDevices, zeroMediaDevices,
			notDetectedOr(zeroMediaDevices, "At least one media device reported", "mediaDevices available but zero devices reported"), CategoryBrowserFeatures),
		sig("noSpeechVoices", swNoSpeechVoices, noSpeechVoices,
			notDetectedOr(noSpeechVoices, "Speech synthesis voices available", "No speech synthesis voices reported"), CategoryBrowserFeatures),
		sig("noConnectionAPI", swNoConnectionAPI, noConnectionAPI,
			notDetectedOr(noConnectionAPI, "navigator.connection available", "Chrome UA but navigator.connection missing"), CategoryBrowserFeatures),
		sig("noFonts", swNoFonts, noFonts,
			notDetectedOr(noFonts, "Fonts detected", "No fonts detected"), CategoryBrowserFeatures),
		sig("fewFonts", swFewFonts, fewFonts,
			notDetectedOr(fewFonts, "Font count outside the 1-4 suspicious range", "Unusually few fonts detected (1-4)"), CategoryBrowserFeatures),
		sig("noCanvasHash", swNoCanvasHash, noCanvasHash,
			notDetectedOr(noCanvasHash, "Canvas fingerprint hash present", "Canvas fingerprint hash missing or errored"), CategoryBrowserFeatures),
		sig("audioError", swAudioError, audioError,
			notDetectedOr(audioError, "Audio fingerprint succeeded", "Audio fingerprint reported an error"), CategoryBrowserFeatures),
		sig("noPerformanceMemory", swNoPerformanceMem, noPerfMemory,
			notDetectedOr(noPerfMemory, "performance.memory available", "Chrome UA but performance.memory missing"), CategoryBrowserFeatures),
		sig("documentHidden", swDocumentHidden, documentHidden,
			notDetectedOr(documentHidden, "Document was visible at submission time", "Document was hidden at submission time"), CategoryBrowserFeatures),
		sig("noGamepadAPI", swNoGamepadAPI, noGamepad,
			notDetectedOr(noGamepad, "Gamepad API available", "Gamepad API unavailable"), CategoryBrowserFeatures),
		sig("keyboardAPIError", swKeyboardAPIError, keyboardErr,
			notDetectedOr(keyboardErr, "Keyboard API succeeded", "Keyboard API reported an error"), CategoryBrowserFeatures),
		sig("noServiceWorker", swNoServiceWorker, noServiceWorker,
			notDetectedOr(noServiceWorker, "Service Worker support available", "Service Worker support unavailable"), CategoryBrowserFeatures),
		sig("noWebAssembly", swNoWebAssembly, noWebAssembly,
			notDetectedOr(noWebAssembly, "WebAssembly support available", "WebAssembly support unavailable"), CategoryBrowserFeatures),
		sig("noBluetooth", swNoBluetooth, noBluetooth,
			notDetectedOr(noBluetooth, "Web Bluetooth available", "Web Bluetooth unavailable"), CategoryBrowserFeatures),
		sig("noUSB", swNoUSB, noUSB,
			notDetectedOr(noUSB, "WebUSB available", "WebUSB unavailable"), CategoryBrowserFeatures),
		sig("noCredentials", swNoCredentials, noCredentials,
			notDetectedOr(noCredentials, "Credential Management API available", "Credential Management API unavailable"), CategoryBrowserFeatures),
	}
	return out
}

func webglSignals(b Bundle, uaLower string) []Signal {
	renderer := b.getString("webgl.unmaskedRenderer", b.getString("webgl.renderer", ""))
	vendor := b.getString("webgl.unmaskedVendor", b.getString("webgl.vendor", ""))
	webglError := b.getString("webgl.error", "")
	hasWebGL := b.has("webgl")

	rendererLower := strings.ToLower(renderer)
	vendorLower := strings.ToLower(vendor)

	softwareRenderer := strings.Contains(rendererLower, "swiftshader") || strings.Contains(rendererLower, "llvmpipe") || strings.Contains(rendererLower, "mesa")
	noRenderer := hasWebGL && webglError == "" && renderer == ""
	softwareVendor := strings.Contains(vendorLower, "brian paul") || strings.Contains(vendorLower, "mesa")
	noExtensions := b.getArrayLen("webgl.extensions") <= 0
	noWebGL2 := isChromeUA(uaLower) && b.getString("webgl2.error", "") != ""

	return []Signal{
		sig("softwareRenderer", swSoftwareRenderer, softwareRenderer,
			notDetectedOr(softwareRenderer, "WebGL renderer is not a software fallback", "WebGL renderer names a software fallback"), CategoryWebGL),
		sig("noWebGLRenderer", swNoWebGLRenderer, noRenderer,
			notDetectedOr(noRenderer, "WebGL renderer string present", "WebGL available but renderer string is empty"), CategoryWebGL),
		sig("softwareVendor", swSoftwareVendor, softwareVendor,
			notDetectedOr(softwareVendor, "WebGL vendor is not a software fallback", "WebGL vendor names a software fallback"), CategoryWebGL),
		sig("noWebGLExtensions", swNoWebGLExtensions, noExtensions,
			notDetectedOr(noExtensions, "WebGL extensions reported", "No WebGL extensions reported"), CategoryWebGL),
		sig("noWebGL2", swNoWebGL2, noWebGL2,
			notDetectedOr(noWebGL2, "WebGL2 context available", "Chrome UA but WebGL2 context errored"), CategoryWebGL),
	}
}

func screenSignals(b Bundle) []Signal {
	width := b.getNumber("screen.width", -1)
	height := b.getNumber("screen.height", -1)
	zeroScreen := width == 0 && height == 0
	defaultScreen := width == 800 && height == 600

	innerW := b.getNumber("window.innerWidth", -1)
	innerH := b.getNumber("window.innerHeight", -1)
	outerW := b.getNumber("window.outerWidth", -2)
	outerH := b.getNumber("window.outerHeight", -2)
	noWindowChrome := innerW == outerW && outerW > 0 && innerH == outerH

	dpr := b.getNumber("screen.devicePixelRatio", 1)
	unusualDPR := dpr < 0.5 || dpr > 4

	colorDepth := b.getNumber("screen.colorDepth", 24)
	lowColorDepth := colorDepth < 24

	return []Signal{
		sig("zeroScreenSize", swZeroScreenSize, zeroScreen,
			notDetectedOr(zeroScreen, "Screen dimensions are non-zero", "Screen dimensions are 0x0"), CategoryScreen),
		sig("defaultScreenSize", swDefaultScreenSize, defaultScreen,
			notDetectedOr(defaultScreen, "Screen size is not the default 800x600", "Screen size is exactly the default 800x600"), CategoryScreen),
		sig("noWindowChrome", swNoWindowChrome, noWindowChrome,
			notDetectedOr(noWindowChrome, "Window inner/outer dimensions differ as expected with browser chrome", "Window inner and outer dimensions match exactly (no browser chrome)"), CategoryScreen),
		sig("unusualDPR", swUnusualDPR, unusualDPR,
			notDetectedOr(unusualDPR, "Device pixel ratio is within normal range", "Device pixel ratio is unusually low or high"), CategoryScreen),
		sig("lowColorDepth", swLowColorDepth, lowColorDepth,
			notDetectedOr(lowColorDepth, "Color depth is 24-bit or higher", "Color depth is below 24-bit"), CategoryScreen),
	}
}

func consistencySignals(b Bundle, f headerFacts, uaLower string, parsed parsedHeaderUA) []Signal {
	mobile := uaIsMobile(uaLower, parsed)
	maxTouchPoints := b.getNumber("touch.maxTouchPoints", 0)
	touchEvent := b.getBool("touch.touchEvent", false)

	mobileNoTouch := mobile && maxTouchPoints == 0
	desktopTouchMismatch := !mobile && maxTouchPoints > 0 && touchEvent

	appName := b.getString("navigator.appName", "")
	product := b.getString("navigator.product", "")
	navigatorInconsistency := appName == "Netscape" && product != "Gecko"

	navigatorUA := b.getString("navigator.userAgent", "")
	uaMismatch := navigatorUA != "" && navigatorUA != f.userAgent

	languageMismatch := primaryTag(f.acceptLanguage) != "" && primaryTag(b.getString("navigator.language", "")) != "" &&
		primaryTag(f.acceptLanguage) != primaryTag(b.getString("navigator.language", ""))

	windows, mac, linux := uaNamesOS(uaLower)
	platform := strings.ToLower(b.getString("navigator.platform", ""))
	platformMismatch := false
	if windows && !strings.Contains(platform, "win") {
		platformMismatch = true
	} else if mac && !strings.Contains(platform, "mac") {
		platformMismatch = true
	} else if linux && !mobile && !strings.Contains(platform, "linux") {
		platformMismatch = true
	}

	tz := b.getString("timezone.timezone", "")
	offset := b.getNumber("timezone.offset", 0)
	timezoneInconsistent := (strings.HasPrefix(tz, "America/") && offset < 0) ||
		(strings.HasPrefix(tz, "Europe/") && offset > 60)

	uaDataPlatform := strings.ToLower(b.getString("userAgentData.platform", ""))
	clientHintsMismatch := strings.Contains(platform, "win") && uaDataPlatform != "" && !strings.Contains(uaDataPlatform, "win")

	vendor := strings.ToLower(b.getString("navigator.vendor", ""))
	chromeUA := isChromeUA(uaLower)
	safariUA := strings.Contains(uaLower, "safari") && !strings.Contains(uaLower, "chrome")
	vendorMismatch := (chromeUA && !strings.Contains(vendor, "google")) || (safariUA && !strings.Contains(vendor, "apple"))

	productInconsistent := b.has("navigator.product") && product != "Gecko"

	return []Signal{
		sig("mobileNoTouch", swMobileNoTouch, mobileNoTouch,
			notDetectedOr(mobileNoTouch, "Mobile UA reports touch points", "Mobile UA reports zero touch points"), CategoryConsistency),
		sig("desktopTouchMismatch", swDesktopTouchMismatch, desktopTouchMismatch,
			notDetectedOr(desktopTouchMismatch, "Desktop UA does not claim full touch support", "Desktop UA reports full touch support"), CategoryConsistency),
		sig("navigatorInconsistency", swNavigatorInconsist, navigatorInconsistency,
			notDetectedOr(navigatorInconsistency, "navigator.appName/product combination is consistent", "navigator.appName is Netscape but product is not Gecko"), CategoryConsistency),
		sig("uaMismatch", swUaMismatch, uaMismatch,
			notDetectedOr(uaMismatch, "Header User-Agent matches navigator.userAgent", "Header User-Agent differs from navigator.userAgent"), CategoryConsistency),
		sig("languageMismatch", swLanguageMismatch, languageMismatch,
			notDetectedOr(languageMismatch, "Accept-Language and navigator.language primary tags match", "Accept-Language and navigator.language primary tags differ"), CategoryConsistency),
		sig("platformMismatch", swPlatformMismatch, platformMismatch,
			notDetectedOr(platformMismatch, "navigator.platform agrees with the OS named in User-Agent", "navigator.platform disagrees with the OS named in User-Agent"), CategoryConsistency),
		sig("timezoneInconsistent", swTimezoneInconsistent, timezoneInconsistent,
			notDetectedOr(timezoneInconsistent, "Timezone and UTC offset are consistent", "Timezone name and UTC offset are inconsistent"), CategoryConsistency),
		sig("clientHintsMismatch", swClientHintsMismatch, clientHintsMismatch,
			notDetectedOr(clientHintsMismatch, "userAgentData.platform agrees with navigator.platform", "navigator.platform names Windows but userAgentData.platform disagrees"), CategoryConsistency),
		sig("vendorMismatch", swVendorMismatch, vendorMismatch,
			notDetectedOr(vendorMismatch, "navigator.vendor agrees with the browser named in User-Agent", "navigator.vendor disagrees with the browser named in User-Agent"), CategoryConsistency),
		sig("productInconsistent", swProductInconsistent, productInconsistent,
			notDetectedOr(productInconsistent, "navigator.product is Gecko", "navigator.product is not Gecko"), CategoryConsistency),
	}
}

func primaryTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	// Accept-Language may list multiple weighted tags; take the first.
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if i := strings.Index(tag, ";"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

func timingSignals(b Bundle) []Signal {
	challengeValid := b.getBool("jsChallenge.valid", false)
	solveTime := b.getNumber("jsChallenge.solveTime", 0)
	timingSuspicious := challengeValid && solveTime > 30000

	navStart := b.getNumber("performance.navigationStart", 0)
	loadEnd := b.getNumber("performance.loadEventEnd", 0)
	hasPerf := b.has("performance.navigationStart") && b.has("performance.loadEventEnd")
	loadTime := loadEnd - navStart
	negativeLoad := hasPerf && loadTime < 0
	zeroLoad := hasPerf && loadTime == 0

	return []Signal{
		sig("jsChallengeTimingSuspicious", swTimingSuspicious, timingSuspicious,
			notDetectedOr(timingSuspicious, "JS challenge solve time is within a plausible window", fmt.Sprintf("JS challenge solve time %.0fms exceeds 30000ms", solveTime)), CategoryTiming),
		sig("negativeLoadTime", swNegativeLoadTime, negativeLoad,
			notDetectedOr(negativeLoad, "Page load time is non-negative", "Page load time is negative"), CategoryTiming),
		sig("zeroLoadTime", swZeroLoadTime, zeroLoad,
			notDetectedOr(zeroLoad, "Page load time is non-zero", "Page load time is exactly zero"), CategoryTiming),
	}
}

func fingerprintSignals(b Bundle) []Signal {
	acos := b.getNumber("math.acos", mathAcosHalf)
	mathInconsistent := math.Abs(acos-mathAcosHalf) > 1e-7

	return []Signal{
		sig("mathInconsistent", swMathInconsistent, mathInconsistent,
			notDetectedOr(mathInconsistent, "Math.acos(0.5) matches the expected IEEE-754 value", "Math.acos(0.5) diverges from the expected IEEE-754 value"), CategoryFingerprint),
	}
}

func signalHeaderSignals(f headerFacts, uaLower string) []Signal {
	botDetected := f.botMatch != ""
	botReason := "User-Agent does not match any known bot pattern"
	if botDetected {
		botReason = fmt.Sprintf("User-Agent matches known bot pattern %q", f.botMatch)
	}
	shortUA := f.hasUA && len(f.userAgent) > 0 && len(f.userAgent) < 20
	chromeUA := isChromeUA(uaLower)
	noSecChUa := chromeUA && !f.hasSecChUa

	return []Signal{
		sig("noAcceptLanguage", swNoAcceptLanguage, !f.hasAcceptLanguage,
			notDetectedOr(!f.hasAcceptLanguage, "Accept-Language header present", "Accept-Language header absent"), CategoryHeaders),
		sig("noAcceptHeader", swNoAcceptHeader, !f.hasAccept,
			notDetectedOr(!f.hasAccept, "Accept header present", "Accept header absent"), CategoryHeaders),
		sig("botUserAgent", swBotUserAgent, botDetected, botReason, CategoryHeaders),
		sig("shortUserAgent", swShortUserAgent, shortUA,
			notDetectedOr(shortUA, fmt.Sprintf("User-Agent length %d is within normal range", len(f.userAgent)), fmt.Sprintf("User-Agent length %d is suspiciously short", len(f.userAgent))), CategoryHeaders),
		sig("noSecFetch", swNoSecFetch, !f.hasSecFetch,
			notDetectedOr(!f.hasSecFetch, "At least one Sec-Fetch-* header present", "All Sec-Fetch-* headers absent"), CategoryHeaders),
		sig("noSecChUa", swNoSecChUa, noSecChUa,
			notDetectedOr(noSecChUa, "Sec-CH-UA present or UA is not Chrome", "Chrome UA but Sec-CH-UA header absent"), CategoryHeaders),
		sig("noConnectionHeader", swNoConnectionHdr, !f.hasConnection,
			notDetectedOr(!f.hasConnection, "Connection header present", "Connection header absent"), CategoryHeaders),
		sig("noCacheControl", swNoCacheControl, !f.hasCacheControl,
			notDetectedOr(!f.hasCacheControl, "Cache-Control header present", "Cache-Control header absent"), CategoryHeaders),
	}
}
