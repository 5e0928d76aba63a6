package tracker_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/sentinel/internal/evaluator"
	"github.com/wardline/sentinel/internal/tracker"
)

func TestStatus_NoSession(t *testing.T) {
	trk := tracker.New(nil)
	status := trk.Status("1.2.3.4")
	assert.Equal(t, "pending", status.Verdict)
}

func TestStatus_PendingBeforeDeadline(t *testing.T) {
	trk := tracker.New(nil)
	trk.Open("1.2.3.4")
	status := trk.Status("1.2.3.4")
	assert.Equal(t, "pending", status.Verdict)
}

func TestComplete_FreezesVerdict(t *testing.T) {
	trk := tracker.New(nil)
	trk.Open("1.2.3.4")
	trk.MarkAnalysisRequested("1.2.3.4")

	v := evaluator.Verdict{Verdict: evaluator.VerdictHuman, Score: 0, Code: 0}
	trk.Complete("1.2.3.4", v)

	status := trk.Status("1.2.3.4")
	assert.Equal(t, evaluator.VerdictHuman, status.Verdict)
}

func TestComplete_NeverOverwritesFrozenVerdict(t *testing.T) {
	trk := tracker.New(nil)
	trk.Open("1.2.3.4")
	trk.MarkAnalysisRequested("1.2.3.4")

	first := evaluator.Verdict{Verdict: evaluator.VerdictBot, Score: 100}
	trk.Complete("1.2.3.4", first)

	second := evaluator.Verdict{Verdict: evaluator.VerdictHuman, Score: 0}
	trk.Complete("1.2.3.4", second)

	status := trk.Status("1.2.3.4")
	assert.Equal(t, evaluator.VerdictBot, status.Verdict)
}

func TestTimeout_FiresAtMostOnce(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	trk := tracker.New(func(ip string, v evaluator.Verdict) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	trk.Open("5.6.7.8")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	}, tracker.Deadline+2*time.Second, 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fired)
}

func TestTimeout_DoesNotFireAfterAnalysisRequested(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	trk := tracker.New(func(ip string, v evaluator.Verdict) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	trk.Open("9.9.9.9")
	trk.MarkAnalysisRequested("9.9.9.9")

	time.Sleep(tracker.Deadline + 200*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, fired)
}
