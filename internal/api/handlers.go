package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wardline/sentinel/internal/challenge"
	"github.com/wardline/sentinel/internal/config"
	"github.com/wardline/sentinel/internal/evaluator"
	"github.com/wardline/sentinel/internal/goodbot"
	"github.com/wardline/sentinel/internal/logging"
	"github.com/wardline/sentinel/internal/tracker"
)

// Version is set from main.go at startup.
var Version = "dev"

// maxBodyBytes bounds request JSON bodies, spec.md §5.
const maxBodyBytes = 1 << 20

type Handlers struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *challenge.Store
	tracker *tracker.Tracker
}

// classify is the middleware classifier of spec.md §4.5: every request is
// routed down exactly one of three paths before reaching its handler.
func (h *Handlers) classify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStaticAsset(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		requestID := requestIDFrom(r)

		switch {
		case isAnalysisPath(r.URL.Path):
			// API routes never open a tracker session. /api/bot is scored
			// by the Signal Evaluator itself; the other routes get the
			// Header Evaluator for logging only.
			if r.URL.Path != "/api/bot" {
				v := evaluator.EvaluateHeaders(r.Header)
				logging.HeaderAnalysis(h.log, requestID, ip, v.Verdict, v.Score)
			}
		case isDocumentRequest(r):
			h.tracker.Open(ip)
			logging.HeaderAnalysis(h.log, requestID, ip, "pending", 0)
		default:
			v := evaluator.EvaluateHeaders(r.Header)
			logging.HeaderAnalysis(h.log, requestID, ip, v.Verdict, v.Score)
		}

		next.ServeHTTP(w, r)
	})
}

func isAnalysisPath(path string) bool {
	switch path {
	case "/api/challenge", "/api/challenge/verify", "/api/visit", "/api/bot", "/api/visit-status":
		return true
	default:
		return false
	}
}

// IssueChallenge handles GET /api/challenge, spec.md §4.3.
func (h *Handlers) IssueChallenge(w http.ResponseWriter, r *http.Request) {
	issued, err := h.store.Issue(clientIP(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue challenge")
		return
	}
	writeJSON(w, http.StatusOK, issued)
}

type verifyRequest struct {
	ChallengeID   string  `json:"challengeId"`
	Answer        int     `json:"answer"`
	TimingProof   string  `json:"timingProof"`
	ExecutionTime float64 `json:"executionTime"`
}

// VerifyChallenge handles POST /api/challenge/verify, spec.md §4.3.
func (h *Handlers) VerifyChallenge(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	issuedAt, _ := time.Parse(time.RFC3339, req.TimingProof)
	result := h.store.Verify(req.ChallengeID, req.Answer, issuedAt, req.ExecutionTime)

	logging.ChallengeVerify(h.log, requestIDFrom(r), clientIP(r), result.Valid, result.TimingValid,
		zap.String("reason", result.Reason))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":         result.Valid,
		"timingValid":   result.TimingValid,
		"executionTime": req.ExecutionTime,
		"solveTime":     result.SolveTime,
	})
}

// Visit handles POST /api/visit: an arbitrary client-metrics blob that is
// logged but otherwise unexamined, spec.md §4.5.
func (h *Handlers) Visit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	decodeJSON(w, r, &payload)

	logging.Visit(h.log, requestIDFrom(r), clientIP(r))
	w.WriteHeader(http.StatusNoContent)
}

// Analyze handles POST /api/bot, spec.md §4.2 and §4.4.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	requestID := requestIDFrom(r)
	h.tracker.MarkAnalysisRequested(ip)

	var bundle evaluator.Bundle
	if !decodeJSON(w, r, &bundle) {
		return
	}

	var verdict evaluator.Verdict
	earlyReject := false
	if rejected := evaluator.EarlyReject(bundle); rejected != nil {
		verdict = *rejected
		earlyReject = true
	} else {
		verdict = evaluator.EvaluateSignals(bundle, r.Header)
		annotateGoodBot(&verdict, bundle.NavigatorUserAgent())
	}

	h.tracker.Complete(ip, verdict)

	logging.BotAnalysis(h.log, requestID, ip, earlyReject, zap.String("verdict", verdict.Verdict), zap.Int("score", verdict.Score))
	logging.BotVerdict(h.log, requestID, ip, verdict.Verdict, verdict.Score, verdict.Code)

	writeJSON(w, http.StatusOK, verdict)
}

// annotateGoodBot appends a known-good-crawler note to the botUserAgent
// signal's reason, if present, without touching weight or score.
func annotateGoodBot(v *evaluator.Verdict, ua string) {
	if goodbot.Name(ua) == "" {
		return
	}
	for i := range v.AllSignals {
		if v.AllSignals[i].Name == "botUserAgent" && v.AllSignals[i].Detected {
			v.AllSignals[i].Reason = goodbot.Annotate(v.AllSignals[i].Reason, ua)
		}
	}
	for i := range v.Signals {
		if v.Signals[i].Name == "botUserAgent" {
			v.Signals[i].Reason = goodbot.Annotate(v.Signals[i].Reason, ua)
		}
	}
}

// VisitStatus handles GET /api/visit-status, spec.md §4.4.
func (h *Handlers) VisitStatus(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	status := h.tracker.Status(ip)

	logging.VisitStatus(h.log, requestIDFrom(r), ip, status.Verdict)

	if status.Full != nil {
		writeJSON(w, http.StatusOK, status.Full)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// serveStatic serves the built UI from disk, falling back to index.html
// for unknown paths (SPA routing), spec.md §4.5 and §6.4.
func (h *Handlers) serveStatic(fs http.FileSystem) http.HandlerFunc {
	fileServer := http.FileServer(fs)
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" {
			if f, err := fs.Open(filepath.Clean(path)); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		index, err := fs.Open("/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer index.Close()

		stat, err := index.Stat()
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, "index.html", stat.ModTime(), index.(io.ReadSeeker))
	}
}

// decodeJSON reads and decodes a size-bounded JSON body into v. On
// failure it writes a 400 and reports false; the core itself never
// produces an error response for a malformed body beyond this transport
// boundary, per spec.md §7.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
