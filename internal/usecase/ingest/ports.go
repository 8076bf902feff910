package ingest

import (
	"context"

	"medrecords-gateway/internal/domain/webhook"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/ingest/ports_mock.go -package=ingestmock

type SignatureVerifier interface {
	Verify(ctx context.Context, payload []byte, signatureHeader string) (Result, error)
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, evt webhook.Event) (Outcome, error)
}
