package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// TenantID is selected for verification only; RLS already restricts the rows.
type DocumentRM struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	PatientID uuid.UUID  `json:"patient_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	SignedBy  *string    `json:"signed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
