package webhook

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventDocumentSigned        EventType = "document.signed"
	EventPrescriptionValidated EventType = "prescription.validated"
)

var (
	ErrMissingEventType = errors.New("event type is required")
	ErrMissingTenant    = errors.New("event tenantId is required")
	ErrMissingEntity    = errors.New("event entity id is required")
)

// Event is an accepted delivery. Raw holds the exact verified bytes.
type Event struct {
	Type           EventType
	Raw            []byte
	IdempotencyKey string
	CorrelationKey string
	ReceivedAt     time.Time
}

type envelope struct {
	Type string `json:"type"`
}

func NewEvent(raw []byte, idempotencyKey, correlationKey string, receivedAt time.Time) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, err
	}
	if env.Type == "" {
		return Event{}, ErrMissingEventType
	}
	return Event{
		Type:           EventType(env.Type),
		Raw:            raw,
		IdempotencyKey: idempotencyKey,
		CorrelationKey: correlationKey,
		ReceivedAt:     receivedAt,
	}, nil
}

type DocumentSigned struct {
	TenantID   uuid.UUID  `json:"tenantId"`
	DocumentID uuid.UUID  `json:"documentId"`
	SignerID   string     `json:"signerId"`
	SignedAt   *time.Time `json:"signedAt"`
}

func (e Event) DocumentSigned() (DocumentSigned, error) {
	var p DocumentSigned
	if err := json.Unmarshal(e.Raw, &p); err != nil {
		return DocumentSigned{}, err
	}
	if p.TenantID == uuid.Nil {
		return DocumentSigned{}, ErrMissingTenant
	}
	if p.DocumentID == uuid.Nil {
		return DocumentSigned{}, ErrMissingEntity
	}
	if p.SignedAt == nil {
		at := e.ReceivedAt
		p.SignedAt = &at
	}
	return p, nil
}

type PrescriptionValidated struct {
	TenantID       uuid.UUID  `json:"tenantId"`
	PrescriptionID uuid.UUID  `json:"prescriptionId"`
	ValidationCode string     `json:"validationCode"`
	ValidatedAt    *time.Time `json:"validatedAt"`
}

func (e Event) PrescriptionValidated() (PrescriptionValidated, error) {
	var p PrescriptionValidated
	if err := json.Unmarshal(e.Raw, &p); err != nil {
		return PrescriptionValidated{}, err
	}
	if p.TenantID == uuid.Nil {
		return PrescriptionValidated{}, ErrMissingTenant
	}
	if p.PrescriptionID == uuid.Nil {
		return PrescriptionValidated{}, ErrMissingEntity
	}
	if p.ValidatedAt == nil {
		at := e.ReceivedAt
		p.ValidatedAt = &at
	}
	return p, nil
}
