//go:build unit || e2e

package webhooktest

import (
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"medrecords-gateway/internal/domain/webhook"
	"medrecords-gateway/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ClinicalURL = "/api/webhooks/clinical"

func DocumentSigned(tenantID, documentID uuid.UUID, signerID string) []byte {
	return []byte(`{"type":"document.signed","tenantId":"` + tenantID.String() +
		`","documentId":"` + documentID.String() + `","signerId":"` + signerID + `"}`)
}

func PrescriptionValidated(tenantID, prescriptionID uuid.UUID, code string) []byte {
	return []byte(`{"type":"prescription.validated","tenantId":"` + tenantID.String() +
		`","prescriptionId":"` + prescriptionID.String() + `","validationCode":"` + code + `"}`)
}

// Deliver signs body at signedAt and posts it the way a sender would.
func Deliver(t *testing.T, router *gin.Engine, secret string, body []byte, signedAt time.Time) *nethttptest.ResponseRecorder {
	t.Helper()
	return DeliverWithSignature(t, router, body, webhook.Sign(body, secret, signedAt))
}

func DeliverWithSignature(t *testing.T, router *gin.Engine, body []byte, signature string) *nethttptest.ResponseRecorder {
	t.Helper()
	return httptest.PerformRawRequest(t, router, http.MethodPost, ClinicalURL, body, map[string]string{
		webhook.SignatureHeader:      signature,
		webhook.IdempotencyKeyHeader: uuid.NewString(),
	})
}
