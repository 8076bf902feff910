//go:build e2e

package webhook_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"medrecords-gateway/internal/handler/dto/response"
	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/usecase/ingest"
	"medrecords-gateway/tests/common/dbtest"
	"medrecords-gateway/tests/common/httptest"
	"medrecords-gateway/tests/common/webhooktest"
	"medrecords-gateway/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Replay state lives in webhook_idempotency_keys.
type WebhookSuite struct {
	e2e.SharedSuite
}

func (s *WebhookSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestWebhookSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, &WebhookSuite{SharedSuite: e2e.SharedSuite{Backend: config.StoreBackendPostgres}})
}

func (s *WebhookSuite) TestDocumentSigned() {
	s.Run("署名済みイベントで文書が更新される", func() {
		t := s.T()
		tenantID := dbtest.CreateTestTenant(t, s.DB, "Clinica A", true)
		documentID := dbtest.CreateTestDocument(t, s.DB, tenantID, "Discharge summary")
		body := webhooktest.DocumentSigned(tenantID, documentID, "dr-7")

		w := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, time.Now())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		status, signedBy := dbtest.DocumentStatus(t, s.DB, documentID)
		require.Equal(t, "signed", status)
		require.NotNil(t, signedBy)
		require.Equal(t, "dr-7", *signedBy)
	})

	s.Run("同じ署名の再送は401で、副作用は1回だけ", func() {
		t := s.T()
		tenantID := dbtest.CreateTestTenant(t, s.DB, "Clinica A", true)
		documentID := dbtest.CreateTestDocument(t, s.DB, tenantID, "Referral")
		body := webhooktest.DocumentSigned(tenantID, documentID, "dr-1")
		signedAt := time.Now()

		first := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, signedAt)
		var accepted response.WebhookAcceptedResponse
		httptest.AssertSuccessResponse(t, first, http.StatusOK, &accepted)
		require.True(t, accepted.Success)
		require.NotEmpty(t, accepted.ProcessedAt)

		second := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, signedAt)
		res := httptest.AssertErrorResponse(t, second, http.StatusUnauthorized, httperr.CodeVerificationFailed)
		require.Equal(t, ingest.ReasonDuplicate, res.Reason)

		var keys int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM webhook_idempotency_keys").Scan(&keys))
		require.Equal(t, 1, keys)
	})

	s.Run("非アクティブテナントの文書は更新されない", func() {
		t := s.T()
		tenantID := dbtest.CreateTestTenant(t, s.DB, "Clinica Fechada", false)
		documentID := dbtest.CreateTestDocument(t, s.DB, tenantID, "Lab order")
		body := webhooktest.DocumentSigned(tenantID, documentID, "dr-9")

		w := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, time.Now())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		status, signedBy := dbtest.DocumentStatus(t, s.DB, documentID)
		require.Equal(t, "draft", status)
		require.Nil(t, signedBy)
	})

	s.Run("他テナントの文書はRLSで更新されない", func() {
		t := s.T()
		tenantA := dbtest.CreateTestTenant(t, s.DB, "Clinica A", true)
		tenantB := dbtest.CreateTestTenant(t, s.DB, "Clinica B", true)
		documentOfB := dbtest.CreateTestDocument(t, s.DB, tenantB, "B only")

		// event claims tenant A but names B's document
		body := webhooktest.DocumentSigned(tenantA, documentOfB, "intruder")
		w := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, time.Now())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		status, signedBy := dbtest.DocumentStatus(t, s.DB, documentOfB)
		require.Equal(t, "draft", status)
		require.Nil(t, signedBy)
	})
}

func (s *WebhookSuite) TestPrescriptionValidated() {
	t := s.T()
	tenantID := dbtest.CreateTestTenant(t, s.DB, "Farmacia", true)
	prescriptionID := dbtest.CreateTestPrescription(t, s.DB, tenantID)

	body := webhooktest.PrescriptionValidated(tenantID, prescriptionID, "RX-42")
	w := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, time.Now())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	status, code := dbtest.PrescriptionStatus(t, s.DB, prescriptionID)
	require.Equal(t, "validated", status)
	require.NotNil(t, code)
	require.Equal(t, "RX-42", *code)
}

func (s *WebhookSuite) TestConcurrentDeliveries() {
	t := s.T()
	tenantID := dbtest.CreateTestTenant(t, s.DB, "Clinica A", true)
	documentID := dbtest.CreateTestDocument(t, s.DB, tenantID, "Lab report")
	body := webhooktest.DocumentSigned(tenantID, documentID, "dr-2")
	signedAt := time.Now()

	const n = 16
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, signedAt).Code
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, c := range codes {
		if c == http.StatusOK {
			accepted++
		} else {
			require.Equal(t, http.StatusUnauthorized, c)
		}
	}
	require.Equal(t, 1, accepted)
}

func (s *WebhookSuite) TestRejectedDeliveriesLeaveNoKey() {
	t := s.T()
	tenantID := dbtest.CreateTestTenant(t, s.DB, "Clinica A", true)
	body := webhooktest.DocumentSigned(tenantID, uuid.New(), "dr-3")

	stale := webhooktest.Deliver(t, s.Router, s.Config.Webhook.Secret, body, time.Now().Add(-6*time.Minute))
	httptest.AssertErrorResponse(t, stale, http.StatusUnauthorized, httperr.CodeVerificationFailed)

	forged := webhooktest.Deliver(t, s.Router, "not-the-secret", body, time.Now())
	httptest.AssertErrorResponse(t, forged, http.StatusUnauthorized, httperr.CodeVerificationFailed)

	var keys int
	require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM webhook_idempotency_keys").Scan(&keys))
	require.Zero(t, keys)
}
