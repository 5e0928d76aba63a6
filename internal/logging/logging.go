// Package logging configures the service's structured logger and the
// bracket-tagged record helpers used across the request pipeline, per
// SPEC_FULL.md §6.3.
package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide JSON logger, writing to stdout. Every record
// carries a UTC ISO-8601 timestamp and level; callers add
// ip/request_id/signal fields per call.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		zapcore.ISO8601TimeEncoder(t.UTC(), enc)
	}
	return cfg.Build()
}

// HeaderAnalysis logs a classified request: the Header Evaluator's outcome,
// spec.md §4.1, or verdict "pending" with score 0 for a document request
// that opened a tracker session.
func HeaderAnalysis(log *zap.Logger, requestID, ip, verdict string, score int, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip), zap.String("verdict", verdict), zap.Int("score", score)}
	log.Info("[header-analysis]", append(base, fields...)...)
}

// ChallengeVerify logs a challenge redemption attempt, spec.md §4.3.
func ChallengeVerify(log *zap.Logger, requestID, ip string, valid, timingValid bool, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip), zap.Bool("valid", valid), zap.Bool("timing_valid", timingValid)}
	log.Info("[challenge-verify]", append(base, fields...)...)
}

// Visit logs a client-metrics submission to POST /api/visit, spec.md §4.5.
func Visit(log *zap.Logger, requestID, ip string, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip)}
	log.Info("[visit]", append(base, fields...)...)
}

// BotAnalysis logs the handling of a submitted fingerprint bundle,
// spec.md §4.2; earlyReject reports whether the early-reject path answered
// instead of the Signal Evaluator.
func BotAnalysis(log *zap.Logger, requestID, ip string, earlyReject bool, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip), zap.Bool("early_reject", earlyReject)}
	log.Info("[bot-analysis]", append(base, fields...)...)
}

// BotVerdict logs a final verdict: the one produced for a /api/bot
// submission, or the timeout verdict the Visit Tracker freezes when a
// session's deadline fires.
func BotVerdict(log *zap.Logger, requestID, ip, verdict string, score, code int, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip), zap.String("verdict", verdict), zap.Int("score", score), zap.Int("code", code)}
	log.Info("[bot-verdict]", append(base, fields...)...)
}

// VisitStatus logs a status query against a session, spec.md §4.4.
func VisitStatus(log *zap.Logger, requestID, ip, verdict string, fields ...zap.Field) {
	base := []zap.Field{zap.String("request_id", requestID), zap.String("ip", ip), zap.String("verdict", verdict)}
	log.Info("[visit-status]", append(base, fields...)...)
}
