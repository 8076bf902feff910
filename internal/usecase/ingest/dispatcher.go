package ingest

import (
	"context"
	"log/slog"

	"medrecords-gateway/internal/domain/webhook"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/metrics"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/google/uuid"
)

// errTenantUnavailable: the event names a tenant that is unknown or inactive.
// Such events are acknowledged without side effects.
var errTenantUnavailable = errs.New("webhook tenant unavailable")

type HandlerFunc func(ctx context.Context, evt webhook.Event) error

type Outcome struct {
	Handled bool
}

// Dispatcher runs the handler for an accepted event synchronously. Unknown
// types are acknowledged so senders can add types without breaking delivery.
type Dispatcher struct {
	handlers map[webhook.EventType]HandlerFunc
	tenants  shared.TenantReadStore
	logger   *slog.Logger
}

func NewDispatcher(
	tenants shared.TenantReadStore,
	scope shared.TenantScope,
	documents shared.DocumentRepository,
	prescriptions shared.PrescriptionRepository,
	logger *slog.Logger,
) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[webhook.EventType]HandlerFunc),
		tenants:  tenants,
		logger:   logger,
	}
	d.Register(webhook.EventDocumentSigned, d.documentSigned(scope, documents))
	d.Register(webhook.EventPrescriptionValidated, d.prescriptionValidated(scope, prescriptions))
	return d
}

func (d *Dispatcher) Register(eventType webhook.EventType, h HandlerFunc) {
	d.handlers[eventType] = h
}

// Errors are marked with errs.ErrInvalidWebhookPayload (sender must not retry)
// or errs.ErrWebhookDispatchFailed (sender may retry).
func (d *Dispatcher) Dispatch(ctx context.Context, evt webhook.Event) (Outcome, error) {
	h, ok := d.handlers[evt.Type]
	if !ok {
		d.logger.Info("unknown webhook event type acknowledged",
			"type", string(evt.Type),
			"idempotency_key", evt.IdempotencyKey,
			"correlation_key", evt.CorrelationKey)
		metrics.WebhookEvents.WithLabelValues("unknown", "acknowledged").Inc()
		return Outcome{Handled: false}, nil
	}

	if err := h(ctx, evt); err != nil {
		if errs.Is(err, errTenantUnavailable) {
			d.logger.Warn("webhook skipped for unavailable tenant",
				"type", string(evt.Type),
				"idempotency_key", evt.IdempotencyKey,
				"error", err.Error())
			metrics.WebhookEvents.WithLabelValues(string(evt.Type), "skipped").Inc()
			return Outcome{Handled: false}, nil
		}
		outcome := "failed"
		if errs.Is(err, errs.ErrInvalidWebhookPayload) {
			outcome = "invalid"
		}
		metrics.WebhookEvents.WithLabelValues(string(evt.Type), outcome).Inc()
		return Outcome{}, err
	}

	metrics.WebhookEvents.WithLabelValues(string(evt.Type), "handled").Inc()
	return Outcome{Handled: true}, nil
}

func (d *Dispatcher) documentSigned(scope shared.TenantScope, documents shared.DocumentRepository) HandlerFunc {
	return func(ctx context.Context, evt webhook.Event) error {
		p, err := evt.DocumentSigned()
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidWebhookPayload)
		}
		if err := d.requireActiveTenant(ctx, p.TenantID); err != nil {
			return err
		}

		err = scope.WithinTenant(ctx, p.TenantID, func(ctx context.Context, tx db.DBTX) error {
			found, err := documents.MarkSigned(ctx, tx, p.DocumentID, p.SignerID, *p.SignedAt)
			if err != nil {
				return err
			}
			if !found {
				d.logger.Warn("signed document not visible to tenant",
					"tenant_id", p.TenantID.String(),
					"document_id", p.DocumentID.String())
			}
			return nil
		})
		if err != nil {
			return errs.Mark(errs.Wrap(err, "document.signed"), errs.ErrWebhookDispatchFailed)
		}

		d.logger.Info("document signed",
			"tenant_id", p.TenantID.String(),
			"document_id", p.DocumentID.String())
		return nil
	}
}

func (d *Dispatcher) prescriptionValidated(scope shared.TenantScope, prescriptions shared.PrescriptionRepository) HandlerFunc {
	return func(ctx context.Context, evt webhook.Event) error {
		p, err := evt.PrescriptionValidated()
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidWebhookPayload)
		}
		if err := d.requireActiveTenant(ctx, p.TenantID); err != nil {
			return err
		}

		err = scope.WithinTenant(ctx, p.TenantID, func(ctx context.Context, tx db.DBTX) error {
			found, err := prescriptions.MarkValidated(ctx, tx, p.PrescriptionID, p.ValidationCode, *p.ValidatedAt)
			if err != nil {
				return err
			}
			if !found {
				d.logger.Warn("validated prescription not visible to tenant",
					"tenant_id", p.TenantID.String(),
					"prescription_id", p.PrescriptionID.String())
			}
			return nil
		})
		if err != nil {
			return errs.Mark(errs.Wrap(err, "prescription.validated"), errs.ErrWebhookDispatchFailed)
		}

		d.logger.Info("prescription validated",
			"tenant_id", p.TenantID.String(),
			"prescription_id", p.PrescriptionID.String())
		return nil
	}
}

// same gate the tenant middleware applies to HTTP requests
func (d *Dispatcher) requireActiveTenant(ctx context.Context, tenantID uuid.UUID) error {
	t, err := d.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errs.Is(err, errs.ErrTenantNotFound) {
			return errs.Mark(errs.Wrap(err, "tenant "+tenantID.String()), errTenantUnavailable)
		}
		return errs.Mark(errs.Wrap(err, "tenant lookup"), errs.ErrWebhookDispatchFailed)
	}
	if !t.IsActive() {
		return errs.Mark(errs.Wrap(errs.ErrTenantInactive, "tenant "+tenantID.String()), errTenantUnavailable)
	}
	return nil
}
