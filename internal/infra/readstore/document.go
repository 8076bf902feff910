package readstore

import (
	"context"

	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/pgconv"
	"medrecords-gateway/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5/pgtype"
)

// No tenant predicate: the documents policy filters on app.current_tenant_id.
const listDocumentsSQL = `
SELECT id, tenant_id, patient_id, title, status, signed_at, signed_by, created_at
FROM documents
ORDER BY created_at DESC
LIMIT $1`

type DocumentReadStore struct{}

func NewDocumentReadStore() *DocumentReadStore {
	return &DocumentReadStore{}
}

func (r *DocumentReadStore) List(ctx context.Context, tx db.DBTX, limit int) ([]readmodel.DocumentRM, error) {
	rows, err := tx.Query(ctx, listDocumentsSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list documents", err)
	}
	defer rows.Close()

	docs := make([]readmodel.DocumentRM, 0)
	for rows.Next() {
		var (
			doc      readmodel.DocumentRM
			signedAt pgtype.Timestamptz
			signedBy pgtype.Text
		)
		if err := rows.Scan(&doc.ID, &doc.TenantID, &doc.PatientID, &doc.Title, &doc.Status, &signedAt, &signedBy, &doc.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan document", err)
		}
		doc.SignedAt = pgconv.TimePtrFromPgtype(signedAt)
		doc.SignedBy = pgconv.StringPtrFromPgtype(signedBy)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate documents", err)
	}

	return docs, nil
}
