package challenge_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/sentinel/internal/challenge"
)

func TestIssue_ReturnsEvaluableExpression(t *testing.T) {
	s := challenge.New()
	issued, err := s.Issue("127.0.0.1")
	require.NoError(t, err)

	assert.Len(t, issued.ChallengeID, 13)
	assert.True(t, strings.HasPrefix(issued.Challenge, "(function(){return "))
	assert.True(t, strings.HasSuffix(issued.Challenge, ";})()"))
}

func TestVerify_HappyPath(t *testing.T) {
	s := challenge.New()
	issued, err := s.Issue("127.0.0.1")
	require.NoError(t, err)

	var a, b int
	var op string
	_, err = parseExpr(issued.Challenge, &a, &op, &b)
	require.NoError(t, err)

	answer := apply(op, a, b)

	result := s.Verify(issued.ChallengeID, answer, issued.IssuedAt, 15)
	assert.True(t, result.Valid)
	assert.True(t, result.TimingValid)
}

func TestVerify_IsSingleUse(t *testing.T) {
	s := challenge.New()
	issued, err := s.Issue("127.0.0.1")
	require.NoError(t, err)

	var a, b int
	var op string
	_, _ = parseExpr(issued.Challenge, &a, &op, &b)
	answer := apply(op, a, b)

	first := s.Verify(issued.ChallengeID, answer, issued.IssuedAt, 15)
	assert.True(t, first.Valid)

	second := s.Verify(issued.ChallengeID, answer, issued.IssuedAt, 15)
	assert.False(t, second.Valid)
	assert.Equal(t, "Challenge not found or expired", second.Reason)
}

func TestVerify_UnknownID(t *testing.T) {
	s := challenge.New()
	result := s.Verify("nonexistent12", 0, time.Now(), 15)
	assert.False(t, result.Valid)
	assert.Equal(t, "Challenge not found or expired", result.Reason)
}

func TestVerify_WrongAnswerStillConsumesID(t *testing.T) {
	s := challenge.New()
	issued, err := s.Issue("127.0.0.1")
	require.NoError(t, err)

	wrong := s.Verify(issued.ChallengeID, -999999, issued.IssuedAt, 15)
	assert.False(t, wrong.Valid)

	replay := s.Verify(issued.ChallengeID, -999999, issued.IssuedAt, 15)
	assert.False(t, replay.Valid)
	assert.Equal(t, "Challenge not found or expired", replay.Reason)
}

// parseExpr extracts a, op, b from "(function(){return A op B;})()".
func parseExpr(expr string, a *int, op *string, b *int) (bool, error) {
	inner := strings.TrimPrefix(expr, "(function(){return ")
	inner = strings.TrimSuffix(inner, ";})()")
	for _, candidate := range []string{"+", "-", "*"} {
		if idx := strings.Index(inner, " "+candidate+" "); idx >= 0 {
			left := strings.TrimSpace(inner[:idx])
			right := strings.TrimSpace(inner[idx+3:])
			var err error
			*a, err = strconv.Atoi(left)
			if err != nil {
				return false, err
			}
			*b, err = strconv.Atoi(right)
			if err != nil {
				return false, err
			}
			*op = candidate
			return true, nil
		}
	}
	return false, nil
}

func apply(op string, a, b int) int {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	}
	return 0
}
