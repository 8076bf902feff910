package httperr

import (
	"github.com/gin-gonic/gin"
)

// Stable codes; senders branch their retry logic on these.
const (
	CodeMissingSignature      = "MISSING_SIGNATURE"
	CodeVerificationFailed    = "WEBHOOK_VERIFICATION_FAILED"
	CodeRateLimited           = "WEBHOOK_RATE_LIMITED"
	CodeRawBodyRequired       = "RAW_BODY_REQUIRED"
	CodeInvalidPayload        = "INVALID_WEBHOOK_PAYLOAD"
	CodeProcessingFailed      = "WEBHOOK_PROCESSING_FAILED"
	CodeMissingTenant         = "MISSING_TENANT"
	CodeInvalidTenantFormat   = "INVALID_TENANT_FORMAT"
	CodeTenantNotFound        = "TENANT_NOT_FOUND"
	CodeTenantInactive        = "TENANT_INACTIVE"
	CodeTenantMiddlewareError = "TENANT_MIDDLEWARE_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
	CodeRequestEntityTooLarge = "PAYLOAD_TOO_LARGE"
)

type Response struct {
	Status     int    `json:"-"`
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

type Option func(*Response)

func WithReason(reason string) Option {
	return func(r *Response) { r.Reason = reason }
}

// seconds, rounded up by the caller
func WithRetryAfter(seconds int) Option {
	return func(r *Response) { r.RetryAfter = seconds }
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string, opts ...Option) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status, Error: msg, Code: code}
	for _, opt := range opts {
		opt(&resp)
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
