//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixtures are written through a superuser connection, which RLS never filters.

func CreateTestTenant(t *testing.T, db DBLike, name string, active bool) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO tenants (id, name, plan, is_active) VALUES ($1, $2, 'pro', $3)",
		tenantID, name, active)
	require.NoError(t, err)

	return tenantID
}

func CreateTestDocument(t *testing.T, db DBLike, tenantID uuid.UUID, title string) uuid.UUID {
	t.Helper()

	documentID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO documents (id, tenant_id, patient_id, title) VALUES ($1, $2, $3, $4)",
		documentID, tenantID, uuid.New(), title)
	require.NoError(t, err)

	return documentID
}

func CreateTestPrescription(t *testing.T, db DBLike, tenantID uuid.UUID) uuid.UUID {
	t.Helper()

	prescriptionID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO prescriptions (id, tenant_id, patient_id) VALUES ($1, $2, $3)",
		prescriptionID, tenantID, uuid.New())
	require.NoError(t, err)

	return prescriptionID
}

// DocumentStatus reads a document bypassing RLS.
func DocumentStatus(t *testing.T, db DBLike, documentID uuid.UUID) (status string, signedBy *string) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, signed_by FROM documents WHERE id = $1", documentID).Scan(&status, &signedBy)
	require.NoError(t, err)

	return status, signedBy
}

func PrescriptionStatus(t *testing.T, db DBLike, prescriptionID uuid.UUID) (status string, code *string) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, validation_code FROM prescriptions WHERE id = $1", prescriptionID).Scan(&status, &code)
	require.NoError(t, err)

	return status, code
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
