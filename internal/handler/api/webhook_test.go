//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"strconv"
	"testing"
	"time"

	"medrecords-gateway/internal/domain/webhook"
	"medrecords-gateway/internal/handler/api"
	resdto "medrecords-gateway/internal/handler/dto/response"
	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/infra/cache"
	"medrecords-gateway/internal/infra/ratelimit"
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/usecase/ingest"
	"medrecords-gateway/tests/common/httptest"
	ingestmock "medrecords-gateway/tests/mock/ingest"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const webhookURL = "/api/webhooks/clinical"

type WebhookHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockCtrl   *gomock.Controller
	dispatcher *ingestmock.MockEventDispatcher
	store      *cache.MemoryIdempotencyStore
	clock      *clock.MockClock
	cfg        config.WebhookConfig
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.dispatcher = ingestmock.NewMockEventDispatcher(s.mockCtrl)
	s.store = cache.NewMemoryIdempotencyStore()
	s.clock = clock.NewMockClock(time.UnixMilli(1_700_000_000_000))
	s.cfg = config.NewTestConfig().Webhook

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := ingest.NewVerifier(s.cfg, s.store, s.clock)
	handler := api.NewWebhookHandler(verifier, s.dispatcher, s.clock, logger)

	webhooks := s.router.Group("/api/webhooks")
	webhooks.Use(
		middleware.NewWebhookRateLimiter(ratelimit.NewMemoryLimiter(s.cfg.RateLimit, s.cfg.RateWindow), s.clock).Handler(),
		middleware.RawBodyCapture(s.cfg.MaxBodyBytes),
	)
	webhooks.POST("/clinical", handler.Receive)
}

func (s *WebhookHandlerTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) post(body []byte, signature string) *nethttptest.ResponseRecorder {
	headers := map[string]string{webhook.IdempotencyKeyHeader: "client-key-1"}
	if signature != "" {
		headers[webhook.SignatureHeader] = signature
	}
	return httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, webhookURL, body, headers)
}

var signedBody = []byte(`{"type":"document.signed","tenantId":"8c1f6a1e-3b5d-4c2a-9f7e-1a2b3c4d5e6f","documentId":"0b7e2c44-5d1a-4f6b-8e9a-2c3d4e5f6a7b","signerId":"dr-1"}`)

func (s *WebhookHandlerTestSuite) TestAcceptThenReplay() {
	signature := webhook.Sign(signedBody, s.cfg.Secret, s.clock.Now())

	s.dispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt webhook.Event) (ingest.Outcome, error) {
			s.Equal(webhook.EventDocumentSigned, evt.Type)
			s.Equal(signedBody, evt.Raw)
			s.Equal("client-key-1", evt.CorrelationKey)
			s.Len(evt.IdempotencyKey, 64)
			return ingest.Outcome{Handled: true}, nil
		}).
		Times(1)

	first := s.post(signedBody, signature)

	var accepted resdto.WebhookAcceptedResponse
	httptest.AssertSuccessResponse(s.T(), first, http.StatusOK, &accepted)
	want := resdto.WebhookAcceptedResponse{Success: true, ProcessedAt: "2023-11-14T22:13:20.000Z"}
	if diff := cmp.Diff(want, accepted); diff != "" {
		s.Failf("unexpected response", "(-want +got):\n%s", diff)
	}

	s.clock.Add(time.Second)
	second := s.post(signedBody, signature)

	body := httptest.AssertErrorResponse(s.T(), second, http.StatusUnauthorized, httperr.CodeVerificationFailed)
	s.Equal(ingest.ReasonDuplicate, body.Reason)
	s.Equal(1, s.store.Len())
}

func (s *WebhookHandlerTestSuite) TestRejections() {
	tests := []struct {
		name         string
		body         func() []byte
		signature    func(body []byte) string
		expectStatus int
		expectCode   string
		expectReason string
	}{
		{
			name:         "missing signature header",
			body:         func() []byte { return signedBody },
			signature:    func([]byte) string { return "" },
			expectStatus: http.StatusUnauthorized,
			expectCode:   httperr.CodeMissingSignature,
		},
		{
			name:         "empty body",
			body:         func() []byte { return nil },
			signature:    func(b []byte) string { return webhook.Sign(b, s.cfg.Secret, s.clock.Now()) },
			expectStatus: http.StatusBadRequest,
			expectCode:   httperr.CodeRawBodyRequired,
		},
		{
			name:         "malformed signature header",
			body:         func() []byte { return signedBody },
			signature:    func([]byte) string { return "sha256=deadbeef" },
			expectStatus: http.StatusUnauthorized,
			expectCode:   httperr.CodeVerificationFailed,
			expectReason: ingest.ReasonInvalidFormat,
		},
		{
			name:         "wrong secret",
			body:         func() []byte { return signedBody },
			signature:    func(b []byte) string { return webhook.Sign(b, "not-the-secret", s.clock.Now()) },
			expectStatus: http.StatusUnauthorized,
			expectCode:   httperr.CodeVerificationFailed,
			expectReason: ingest.ReasonInvalidSignature,
		},
		{
			name: "stale timestamp",
			body: func() []byte { return signedBody },
			signature: func(b []byte) string {
				return webhook.Sign(b, s.cfg.Secret, s.clock.Now().Add(-10*time.Minute))
			},
			expectStatus: http.StatusUnauthorized,
			expectCode:   httperr.CodeVerificationFailed,
			expectReason: ingest.ReasonTimestampTooOld,
		},
		{
			name: "timestamp near the epoch",
			body: func() []byte { return signedBody },
			signature: func(b []byte) string {
				return webhook.SignatureToken{Timestamp: 1, SignatureHex: webhook.ComputeSignature(b, s.cfg.Secret, 1)}.String()
			},
			expectStatus: http.StatusUnauthorized,
			expectCode:   httperr.CodeVerificationFailed,
			expectReason: ingest.ReasonTimestampTooOld,
		},
		{
			name:         "signed but not JSON",
			body:         func() []byte { return []byte(`{"type":`) },
			signature:    func(b []byte) string { return webhook.Sign(b, s.cfg.Secret, s.clock.Now()) },
			expectStatus: http.StatusBadRequest,
			expectCode:   httperr.CodeInvalidPayload,
		},
		{
			name:         "signed without event type",
			body:         func() []byte { return []byte(`{"tenantId":"x"}`) },
			signature:    func(b []byte) string { return webhook.Sign(b, s.cfg.Secret, s.clock.Now()) },
			expectStatus: http.StatusBadRequest,
			expectCode:   httperr.CodeInvalidPayload,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

			body := tt.body()
			w := s.post(body, tt.signature(body))

			res := httptest.AssertErrorResponse(s.T(), w, tt.expectStatus, tt.expectCode)
			s.Equal(tt.expectReason, res.Reason)
		})
	}
}

func (s *WebhookHandlerTestSuite) TestDispatchErrors() {
	s.Run("invalid payload is permanent", func() {
		s.dispatcher.EXPECT().
			Dispatch(gomock.Any(), gomock.Any()).
			Return(ingest.Outcome{}, errs.Mark(errors.New("tenantId is required"), errs.ErrInvalidWebhookPayload)).
			Times(1)

		w := s.post(signedBody, webhook.Sign(signedBody, s.cfg.Secret, s.clock.Now()))

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, httperr.CodeInvalidPayload)
	})

	s.Run("handler failure is 500 without details", func() {
		s.dispatcher.EXPECT().
			Dispatch(gomock.Any(), gomock.Any()).
			Return(ingest.Outcome{}, errs.Mark(errors.New("dial tcp: connection refused"), errs.ErrWebhookDispatchFailed)).
			Times(1)

		w := s.post(signedBody, webhook.Sign(signedBody, s.cfg.Secret, s.clock.Now()))

		res := httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, httperr.CodeProcessingFailed)
		s.NotContains(res.Error, "dial tcp")
	})
}

func (s *WebhookHandlerTestSuite) TestAcceptsJSONVariantsAndMissingContentType() {
	for _, contentType := range []string{"application/cloudevents+json", ""} {
		s.Run("content type "+strconv.Quote(contentType), func() {
			s.dispatcher.EXPECT().
				Dispatch(gomock.Any(), gomock.Any()).
				Return(ingest.Outcome{Handled: true}, nil).
				Times(1)

			w := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, webhookURL, signedBody, map[string]string{
				"Content-Type":          contentType,
				webhook.SignatureHeader: webhook.Sign(signedBody, s.cfg.Secret, s.clock.Now()),
			})

			var accepted resdto.WebhookAcceptedResponse
			httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &accepted)
			s.True(accepted.Success)
		})
	}
}

func (s *WebhookHandlerTestSuite) TestRateLimitedBeforeVerification() {
	s.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

	for i := 0; i < s.cfg.RateLimit; i++ {
		w := s.post(signedBody, "t=0,v1=00")
		s.Equal(http.StatusUnauthorized, w.Code)
	}

	w := s.post(signedBody, webhook.Sign(signedBody, s.cfg.Secret, s.clock.Now()))

	res := httptest.AssertErrorResponse(s.T(), w, http.StatusTooManyRequests, httperr.CodeRateLimited)
	s.Positive(res.RetryAfter)
	s.Zero(s.store.Len())
}

func (s *WebhookHandlerTestSuite) TestResponseIsJSON() {
	s.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(ingest.Outcome{}, nil).Times(1)

	body := []byte(`{"type":"lab.unknown"}`)
	w := s.post(body, webhook.Sign(body, s.cfg.Secret, s.clock.Now()))

	s.Equal(http.StatusOK, w.Code)
	var raw map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw))
	s.Equal(true, raw["success"])
	s.Contains(raw, "processedAt")
}

func TestWebhookHandler_AcceptLogCarriesSenderHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	dispatcher := ingestmock.NewMockEventDispatcher(ctrl)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(ingest.Outcome{Handled: true}, nil).Times(1)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	clk := clock.NewMockClock(time.UnixMilli(1_700_000_000_000))
	cfg := config.NewTestConfig().Webhook
	handler := api.NewWebhookHandler(ingest.NewVerifier(cfg, cache.NewMemoryIdempotencyStore(), clk), dispatcher, clk, logger)

	router := gin.New()
	router.POST(webhookURL, middleware.RawBodyCapture(cfg.MaxBodyBytes), handler.Receive)

	w := httptest.PerformRawRequest(t, router, http.MethodPost, webhookURL, signedBody, map[string]string{
		webhook.SignatureHeader:      webhook.Sign(signedBody, cfg.Secret, clk.Now()),
		webhook.TimestampHeader:      "1699999999000",
		webhook.IdempotencyKeyHeader: "client-key-9",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var accepted map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["event"] == "webhook_accepted" {
			accepted = entry
		}
	}
	require.NotNil(t, accepted, "accept log missing:\n%s", logs.String())
	assert.Equal(t, "1699999999000", accepted["declared_timestamp"])
	assert.Equal(t, "2023-11-14T22:13:20.000Z", accepted["signed_at"])
	assert.Equal(t, "client-key-9", accepted["correlation_key"])
}
