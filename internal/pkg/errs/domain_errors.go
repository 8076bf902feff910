package errs

import "errors"

// Sentinel errors shared by the usecase and handler layers
var (
	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantInactive = errors.New("tenant is inactive")

	// Webhook errors
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
	ErrWebhookDispatchFailed = errors.New("webhook dispatch failed")

	// Idempotency errors
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
