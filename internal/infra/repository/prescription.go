package repository

import (
	"context"
	"time"

	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const markPrescriptionValidatedSQL = `
UPDATE prescriptions
SET status = 'validated', validation_code = $2, validated_at = $3, updated_at = now()
WHERE id = $1`

type PrescriptionRepository struct{}

func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{}
}

func (r *PrescriptionRepository) MarkValidated(ctx context.Context, tx db.DBTX, prescriptionID uuid.UUID, validationCode string, validatedAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, markPrescriptionValidatedSQL, prescriptionID, validationCode, pgconv.TimeToPgtype(validatedAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark prescription validated", err)
	}
	return tag.RowsAffected() > 0, nil
}
