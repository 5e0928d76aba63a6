// Package challenge issues, retains, and redeems short-lived arithmetic
// challenges that prove a client executed JavaScript, per spec.md §4.3.
package challenge

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	// ttl is how long an issued challenge remains redeemable before it is
	// treated as absent, spec.md §3 and §4.3.
	ttl = 60 * time.Second

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 13

	timingToleranceMS = 1000
	maxExecutionMS    = 5000
)

// entry is a single issued challenge, keyed by its opaque id.
type entry struct {
	expectedAnswer int
	issuedAt       time.Time
	issuerIP       string
}

// Store issues, retains, and verifies challenges. One coarse mutex guards
// the map, per spec.md §5: the workload is one small object per touch.
type Store struct {
	mu         sync.Mutex
	challenges map[string]entry
}

// New creates an empty Challenge Store.
func New() *Store {
	return &Store{challenges: make(map[string]entry)}
}

// Issued is what Issue hands back to the client: the opaque id, the
// expression text to `eval`, and the server's issue timestamp for the
// client to echo back on verify.
type Issued struct {
	ChallengeID string    `json:"challengeId"`
	Challenge   string    `json:"challenge"`
	IssuedAt    time.Time `json:"timingChallenge"`
}

// Issue picks two uniform integers and an operator, computes the answer
// eagerly, and stores it under a fresh random id, per spec.md §4.3.
func (s *Store) Issue(issuerIP string) (Issued, error) {
	a, err := randN(100)
	if err != nil {
		return Issued{}, err
	}
	b, err := randN(100)
	if err != nil {
		return Issued{}, err
	}

	op, err := randOp()
	if err != nil {
		return Issued{}, err
	}

	answer := apply(op, a, b)
	id, err := randID()
	if err != nil {
		return Issued{}, err
	}
	issuedAt := time.Now()

	s.mu.Lock()
	s.sweepLocked()
	s.challenges[id] = entry{expectedAnswer: answer, issuedAt: issuedAt, issuerIP: issuerIP}
	s.mu.Unlock()

	return Issued{
		ChallengeID: id,
		Challenge:   fmt.Sprintf("(function(){return %d %s %d;})()", a, op, b),
		IssuedAt:    issuedAt,
	}, nil
}

// VerifyResult is the outcome of redeeming a challenge, per spec.md §4.3.
type VerifyResult struct {
	Valid       bool    `json:"valid"`
	TimingValid bool    `json:"timingValid"`
	SolveTime   float64 `json:"solveTime"`
	Reason      string  `json:"reason,omitempty"`
}

// Verify redeems a challenge id: the entry is deleted whether or not the
// check passes, making the id single-use regardless of outcome.
func (s *Store) Verify(id string, answer int, clientIssuedAt time.Time, executionTimeMS float64) VerifyResult {
	s.mu.Lock()
	s.sweepLocked()
	e, ok := s.challenges[id]
	if ok {
		delete(s.challenges, id)
	}
	s.mu.Unlock()

	if !ok {
		return VerifyResult{Valid: false, Reason: "Challenge not found or expired"}
	}

	solveTime := time.Since(e.issuedAt).Seconds() * 1000

	valid := answer == e.expectedAnswer

	timingOffsetMS := clientIssuedAt.Sub(e.issuedAt).Seconds() * 1000
	if timingOffsetMS < 0 {
		timingOffsetMS = -timingOffsetMS
	}
	timingValid := timingOffsetMS <= timingToleranceMS && executionTimeMS > 0 && executionTimeMS < maxExecutionMS

	return VerifyResult{
		Valid:       valid,
		TimingValid: timingValid,
		SolveTime:   solveTime,
	}
}

// sweepLocked drops entries older than ttl. Caller must hold mu.
func (s *Store) sweepLocked() {
	cutoff := time.Now().Add(-ttl)
	for id, e := range s.challenges {
		if e.issuedAt.Before(cutoff) {
			delete(s.challenges, id)
		}
	}
}

func randN(n int64) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

func randOp() (string, error) {
	ops := []string{"+", "-", "*"}
	i, err := randN(int64(len(ops)))
	if err != nil {
		return "", err
	}
	return ops[i], nil
}

func apply(op string, a, b int) int {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	default:
		return 0
	}
}

func randID() (string, error) {
	buf := make([]byte, idLength)
	for i := range buf {
		n, err := randN(int64(len(idAlphabet)))
		if err != nil {
			return "", err
		}
		buf[i] = idAlphabet[n]
	}
	return string(buf), nil
}
