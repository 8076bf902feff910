package response

import (
	"time"

	"medrecords-gateway/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type DocumentResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenantId"`
	PatientID uuid.UUID  `json:"patientId"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	SignedAt  *time.Time `json:"signedAt,omitempty"`
	SignedBy  *string    `json:"signedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int                `json:"count"`
}

func FromTenantRM(rm readmodel.TenantRM) (*TenantResponse, error) {
	var res TenantResponse
	if err := copyFields(&res, &rm); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromDocumentRMs(rms []readmodel.DocumentRM) (*DocumentListResponse, error) {
	docs := make([]DocumentResponse, 0, len(rms))
	if err := copyFields(&docs, &rms); err != nil {
		return nil, err
	}
	return &DocumentListResponse{Documents: docs, Count: len(docs)}, nil
}
