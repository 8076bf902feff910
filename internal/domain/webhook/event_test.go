//go:build unit

package webhook_test

import (
	"testing"
	"time"

	"medrecords-gateway/internal/domain/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	receivedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("typeを取り出しRawを保持", func(t *testing.T) {
		raw := []byte(`{"type":"document.signed","extra":1}`)
		evt, err := webhook.NewEvent(raw, "idem", "corr", receivedAt)
		require.NoError(t, err)

		assert.Equal(t, webhook.EventDocumentSigned, evt.Type)
		assert.Equal(t, raw, evt.Raw)
		assert.Equal(t, "idem", evt.IdempotencyKey)
		assert.Equal(t, "corr", evt.CorrelationKey)
	})

	t.Run("typeなしNG", func(t *testing.T) {
		_, err := webhook.NewEvent([]byte(`{"tenantId":"x"}`), "", "", receivedAt)
		assert.ErrorIs(t, err, webhook.ErrMissingEventType)
	})

	t.Run("JSONでないNG", func(t *testing.T) {
		_, err := webhook.NewEvent([]byte(`not json`), "", "", receivedAt)
		assert.Error(t, err)
	})
}

func TestDocumentSignedPayload(t *testing.T) {
	receivedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tenantID := uuid.New()
	documentID := uuid.New()

	t.Run("signedAt省略時は受信時刻", func(t *testing.T) {
		raw := []byte(`{"type":"document.signed","tenantId":"` + tenantID.String() + `","documentId":"` + documentID.String() + `","signerId":"dr-1"}`)
		evt, err := webhook.NewEvent(raw, "", "", receivedAt)
		require.NoError(t, err)

		p, err := evt.DocumentSigned()
		require.NoError(t, err)
		assert.Equal(t, tenantID, p.TenantID)
		assert.Equal(t, documentID, p.DocumentID)
		assert.Equal(t, "dr-1", p.SignerID)
		require.NotNil(t, p.SignedAt)
		assert.True(t, receivedAt.Equal(*p.SignedAt))
	})

	t.Run("tenantIdなしNG", func(t *testing.T) {
		raw := []byte(`{"type":"document.signed","documentId":"` + documentID.String() + `"}`)
		evt, err := webhook.NewEvent(raw, "", "", receivedAt)
		require.NoError(t, err)

		_, err = evt.DocumentSigned()
		assert.ErrorIs(t, err, webhook.ErrMissingTenant)
	})

	t.Run("documentIdなしNG", func(t *testing.T) {
		raw := []byte(`{"type":"document.signed","tenantId":"` + tenantID.String() + `"}`)
		evt, err := webhook.NewEvent(raw, "", "", receivedAt)
		require.NoError(t, err)

		_, err = evt.DocumentSigned()
		assert.ErrorIs(t, err, webhook.ErrMissingEntity)
	})
}

func TestPrescriptionValidatedPayload(t *testing.T) {
	receivedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tenantID := uuid.New()
	prescriptionID := uuid.New()

	t.Run("validatedAtを尊重", func(t *testing.T) {
		raw := []byte(`{"type":"prescription.validated","tenantId":"` + tenantID.String() +
			`","prescriptionId":"` + prescriptionID.String() +
			`","validationCode":"RX-42","validatedAt":"2026-01-01T10:00:00Z"}`)
		evt, err := webhook.NewEvent(raw, "", "", receivedAt)
		require.NoError(t, err)

		p, err := evt.PrescriptionValidated()
		require.NoError(t, err)
		assert.Equal(t, prescriptionID, p.PrescriptionID)
		assert.Equal(t, "RX-42", p.ValidationCode)
		require.NotNil(t, p.ValidatedAt)
		assert.True(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC).Equal(*p.ValidatedAt))
	})

	t.Run("prescriptionIdなしNG", func(t *testing.T) {
		raw := []byte(`{"type":"prescription.validated","tenantId":"` + tenantID.String() + `"}`)
		evt, err := webhook.NewEvent(raw, "", "", receivedAt)
		require.NoError(t, err)

		_, err = evt.PrescriptionValidated()
		assert.ErrorIs(t, err, webhook.ErrMissingEntity)
	})
}
