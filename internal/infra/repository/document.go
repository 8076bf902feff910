package repository

import (
	"context"
	"time"

	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const markDocumentSignedSQL = `
UPDATE documents
SET status = 'signed', signed_at = $2, signed_by = $3, updated_at = now()
WHERE id = $1`

type DocumentRepository struct{}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

// Returns false when no visible row matched, which under RLS includes rows of other tenants.
func (r *DocumentRepository) MarkSigned(ctx context.Context, tx db.DBTX, documentID uuid.UUID, signerID string, signedAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, markDocumentSignedSQL, documentID, pgconv.TimeToPgtype(signedAt), signerID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark document signed", err)
	}
	return tag.RowsAffected() > 0, nil
}
