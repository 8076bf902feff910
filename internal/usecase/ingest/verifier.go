package ingest

import (
	"context"
	"time"

	"medrecords-gateway/internal/domain/webhook"
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/metrics"
	"medrecords-gateway/internal/usecase/shared"
)

// Reasons are returned to the sender verbatim.
const (
	ReasonInvalidFormat    = "Invalid signature format"
	ReasonTimestampTooOld  = "Timestamp too old"
	ReasonTimestampFuture  = "Timestamp in future"
	ReasonInvalidSignature = "Invalid signature"
	ReasonDuplicate        = "Duplicate webhook (replay attack?)"
)

const (
	DefaultMaxAge        = 5 * time.Minute
	DefaultMaxFutureSkew = 30 * time.Second
)

type Result struct {
	Valid  bool
	Reason string
	// Replay is set only for a correctly signed, fresh delivery whose signing event was already processed.
	Replay         bool
	Token          webhook.SignatureToken
	IdempotencyKey string
}

type Verifier struct {
	secret        string
	maxAge        time.Duration
	maxFutureSkew time.Duration
	store         shared.IdempotencyStore
	clock         clock.Clock
}

func NewVerifier(cfg config.WebhookConfig, store shared.IdempotencyStore, clk clock.Clock) *Verifier {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	maxFutureSkew := cfg.MaxFutureSkew
	if maxFutureSkew <= 0 {
		maxFutureSkew = DefaultMaxFutureSkew
	}
	return &Verifier{
		secret:        cfg.Secret,
		maxAge:        maxAge,
		maxFutureSkew: maxFutureSkew,
		store:         store,
		clock:         clk,
	}
}

// Verify never returns an error for bad input; the error is reserved for an
// idempotency store failure, which must not be downgraded to accept.
// The store is written only after the signature has been proven valid.
func (v *Verifier) Verify(ctx context.Context, payload []byte, signatureHeader string) (Result, error) {
	token, err := webhook.ParseSignatureToken(signatureHeader)
	if err != nil {
		return v.reject(Result{}, ReasonInvalidFormat, "invalid_format"), nil
	}
	res := Result{Token: token}

	now := v.clock.Now()
	if token.OlderThan(now, v.maxAge) {
		return v.reject(res, ReasonTimestampTooOld, "too_old"), nil
	}
	if token.AheadOf(now, v.maxFutureSkew) {
		return v.reject(res, ReasonTimestampFuture, "future"), nil
	}

	if !token.Matches(payload, v.secret) {
		return v.reject(res, ReasonInvalidSignature, "invalid_signature"), nil
	}

	res.IdempotencyKey = token.IdempotencyKey()
	inserted, err := v.store.PutIfAbsent(ctx, res.IdempotencyKey, now)
	if err != nil {
		metrics.WebhookVerifications.WithLabelValues("store_error").Inc()
		return Result{}, errs.Mark(errs.Wrap(err, "idempotency check-and-insert"), errs.ErrIdempotencyCheckFailed)
	}
	if !inserted {
		res.Replay = true
		return v.reject(res, ReasonDuplicate, "replay"), nil
	}

	res.Valid = true
	metrics.WebhookVerifications.WithLabelValues("accepted").Inc()
	return res, nil
}

func (v *Verifier) reject(res Result, reason, label string) Result {
	res.Valid = false
	res.Reason = reason
	metrics.WebhookVerifications.WithLabelValues(label).Inc()
	return res
}
