// Package tracker implements the per-IP Visit Tracker session state
// machine described in spec.md §3 and §4.4: a document fetch opens a
// session with a 5-second liveness deadline; if no analysis call arrives
// before the deadline fires, the Tracker freezes a bot verdict itself.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/wardline/sentinel/internal/evaluator"
)

const (
	// Deadline is the wall-clock window after a document request within
	// which an analysis submission must arrive, spec.md §3.
	Deadline = 5 * time.Second

	// sessionTTL is how long a session survives before opportunistic GC
	// reclaims it, spec.md §3.
	sessionTTL = 60 * time.Second

	noJSExecutionReason = "Fetched page but never called /api/bot within 5 seconds (no JS execution)"
)

// session is per-IP state. All fields are guarded by Tracker.mu.
type session struct {
	startedAt         time.Time
	completed         bool
	analysisRequested bool
	timer             *time.Timer
	finalVerdict      *evaluator.Verdict
}

// Tracker is the per-IP session state machine. One coarse mutex guards the
// map, per spec.md §5.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*session

	// onTimeout is invoked (outside the lock) whenever a session's deadline
	// fires and produces a frozen bot verdict, for logging.
	onTimeout func(ip string, v evaluator.Verdict)
}

// New creates an empty Visit Tracker.
func New(onTimeout func(ip string, v evaluator.Verdict)) *Tracker {
	return &Tracker{
		sessions:  make(map[string]*session),
		onTimeout: onTimeout,
	}
}

// Open starts (or replaces) the session for ip on a document request,
// arming the 5-second deadline timer, per spec.md §4.4 "Open".
func (t *Tracker) Open(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gcLocked()

	if old, ok := t.sessions[ip]; ok && old.timer != nil {
		old.timer.Stop()
	}

	s := &session{startedAt: time.Now()}
	t.sessions[ip] = s
	s.timer = time.AfterFunc(Deadline, func() { t.fire(ip, s) })
}

// fire runs when a session's deadline timer expires. It re-checks session
// identity before acting, since a replacement session may have since been
// installed for the same IP, per spec.md §5.
func (t *Tracker) fire(ip string, s *session) {
	t.mu.Lock()
	cur, ok := t.sessions[ip]
	if !ok || cur != s {
		t.mu.Unlock()
		return
	}
	if s.completed || s.analysisRequested {
		t.mu.Unlock()
		return
	}

	v := timeoutVerdict()
	s.completed = true
	s.finalVerdict = &v
	t.mu.Unlock()

	if t.onTimeout != nil {
		t.onTimeout(ip, v)
	}
}

// MarkAnalysisRequested records that the analysis endpoint was invoked for
// ip's session and cancels its deadline timer, per spec.md §4.4
// "analysis_requested". It does not complete the session.
func (t *Tracker) MarkAnalysisRequested(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[ip]
	if !ok {
		return
	}
	s.analysisRequested = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Complete freezes the session's final verdict once the analysis endpoint
// has produced one, per spec.md §4.4 "complete". It is a no-op if the
// session already has a frozen verdict (the timeout arm won the race).
func (t *Tracker) Complete(ip string, v evaluator.Verdict) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[ip]
	if !ok {
		return
	}
	if s.completed {
		return
	}
	s.completed = true
	s.finalVerdict = &v
}

// Status is the result of a visit-status query, per spec.md §4.4 "Status
// query".
type Status struct {
	Verdict string             `json:"verdict"`
	Code    int                `json:"code,omitempty"`
	Reason  string             `json:"reason,omitempty"`
	Full    *evaluator.Verdict `json:"-"`
}

// Status reports the current state of ip's session.
func (t *Tracker) Status(ip string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[ip]
	if !ok {
		return Status{Verdict: "pending", Reason: "No active session"}
	}

	if s.finalVerdict != nil {
		return Status{Verdict: s.finalVerdict.Verdict, Code: s.finalVerdict.Code, Full: s.finalVerdict}
	}

	if s.completed && s.analysisRequested {
		return Status{Verdict: "pending-analysis"}
	}

	elapsed := time.Since(s.startedAt)
	if !s.analysisRequested && elapsed > Deadline {
		return Status{Verdict: "bot", Code: evaluator.CodeSessionTimedOut, Reason: "Never called /api/bot - no JS execution"}
	}

	remaining := Deadline - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Status{Verdict: "pending", Reason: formatRemaining(remaining)}
}

// gcLocked evicts sessions older than sessionTTL. Caller must hold mu.
func (t *Tracker) gcLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for ip, s := range t.sessions {
		if s.startedAt.Before(cutoff) {
			if s.timer != nil {
				s.timer.Stop()
			}
			delete(t.sessions, ip)
		}
	}
}

func timeoutVerdict() evaluator.Verdict {
	sig := evaluator.Signal{
		Name:     "noJsExecution",
		Weight:   100,
		Detected: true,
		Reason:   noJSExecutionReason,
		Category: evaluator.CategoryAutomation,
	}
	return evaluator.Verdict{
		Verdict:           evaluator.VerdictBot,
		Score:             100,
		MaxScore:          evaluator.MaxScore,
		Confidence:        evaluator.ConfidenceHigh,
		Signals:           []evaluator.Signal{sig},
		AllSignals:        []evaluator.Signal{sig},
		SignalsByCategory: map[string][]evaluator.Signal{evaluator.CategoryAutomation: {sig}},
		Summary:           evaluator.Summary{TotalChecks: 1, Flagged: 1, Passed: 0},
		Code:              evaluator.CodeSessionTimedOut,
		Reason:            noJSExecutionReason,
	}
}

func formatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds remaining", secs)
}
