package api

import (
	"log/slog"
	"net/http"

	"medrecords-gateway/internal/domain/webhook"
	resdto "medrecords-gateway/internal/handler/dto/response"
	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/usecase/ingest"

	"github.com/gin-gonic/gin"
)

const processedAtLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrMissingSignature   = errs.New("missing webhook signature")
	ErrRawBodyRequired    = errs.New("raw body required")
	ErrVerificationFailed = errs.New("webhook verification failed")
)

type WebhookHandler struct {
	verifier   ingest.SignatureVerifier
	dispatcher ingest.EventDispatcher
	clock      clock.Clock
	logger     *slog.Logger
}

func NewWebhookHandler(verifier ingest.SignatureVerifier, dispatcher ingest.EventDispatcher, clk clock.Clock, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger,
	}
}

// @Summary Receive clinical webhook
// @Description Verifies the HMAC signature over the raw body, rejects replays and dispatches by event type
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "t=<unix-ms>,v1=<hex hmac-sha256>"
// @Param X-Idempotency-Key header string false "Client correlation key (informational)"
// @Param X-Webhook-Timestamp header string false "Sender clock in unix ms (informational)"
// @Success 200 {object} resdto.WebhookAcceptedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/webhooks/clinical [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	path := c.Request.URL.Path
	clientIP := c.ClientIP()

	signature := c.GetHeader(webhook.SignatureHeader)
	if signature == "" {
		h.logger.Warn("webhook rejected",
			"event", "webhook_rejected",
			"reason", "missing signature",
			"client_ip", clientIP,
			"path", path)
		httperr.AbortWithError(c, http.StatusUnauthorized, ErrMissingSignature,
			httperr.CodeMissingSignature, "Missing webhook signature")
		return
	}

	raw, ok := middleware.GetRawBody(c)
	if !ok || len(raw) == 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, ErrRawBodyRequired,
			httperr.CodeRawBodyRequired, "Raw body required")
		return
	}

	ctx := c.Request.Context()
	result, err := h.verifier.Verify(ctx, raw, signature)
	if err != nil {
		h.logger.Error("webhook verification failed on idempotency store",
			"client_ip", clientIP,
			"path", path,
			"error", err.Error())
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeProcessingFailed, "Internal server error")
		return
	}

	if !result.Valid {
		event := "webhook_rejected"
		if result.Replay {
			event = "webhook_replay"
		}
		h.logger.Warn("webhook rejected",
			"event", event,
			"reason", result.Reason,
			"signature_prefix", signaturePrefix(result, signature),
			"client_ip", clientIP,
			"path", path)
		httperr.AbortWithError(c, http.StatusUnauthorized, ErrVerificationFailed,
			httperr.CodeVerificationFailed, "Invalid webhook signature",
			httperr.WithReason(result.Reason))
		return
	}

	correlationKey := c.GetHeader(webhook.IdempotencyKeyHeader)
	receivedAt := h.clock.Now()

	if _, parseErr := middleware.GetParsedBody(c); parseErr != nil {
		h.rejectPayload(c, result, parseErr)
		return
	}
	evt, err := webhook.NewEvent(raw, result.IdempotencyKey, correlationKey, receivedAt)
	if err != nil {
		h.rejectPayload(c, result, err)
		return
	}

	h.logger.Info("webhook accepted",
		"event", "webhook_accepted",
		"type", string(evt.Type),
		"correlation_key", correlationKey,
		"signature_prefix", result.Token.SignaturePrefix(),
		"signed_at", result.Token.Time().UTC().Format(processedAtLayout),
		// sender-declared, informational only; the signed timestamp is authoritative
		"declared_timestamp", c.GetHeader(webhook.TimestampHeader),
		"client_ip", clientIP)

	if _, err := h.dispatcher.Dispatch(ctx, evt); err != nil {
		if errs.Is(err, errs.ErrInvalidWebhookPayload) {
			h.rejectPayload(c, result, err)
			return
		}
		h.logger.Error("webhook dispatch failed",
			"type", string(evt.Type),
			"correlation_key", correlationKey,
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 8))
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeProcessingFailed, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, resdto.WebhookAcceptedResponse{
		Success:     true,
		ProcessedAt: h.clock.Now().UTC().Format(processedAtLayout),
	})
}

// Signed but unusable: permanent, so 400 rather than a retryable status.
func (h *WebhookHandler) rejectPayload(c *gin.Context, result ingest.Result, err error) {
	h.logger.Warn("signed webhook has invalid payload",
		"signature_prefix", result.Token.SignaturePrefix(),
		"client_ip", c.ClientIP(),
		"error", err.Error())
	httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrInvalidWebhookPayload),
		httperr.CodeInvalidPayload, "Invalid webhook payload")
}

// falls back to the header prefix when the header could not be parsed
func signaturePrefix(result ingest.Result, header string) string {
	if result.Token.SignatureHex != "" {
		return result.Token.SignaturePrefix()
	}
	return webhook.SignaturePrefix(header)
}
