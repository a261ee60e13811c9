package webhook

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
	"github.com/rs/zerolog/log"
)

// Service is the webhook ingestion pipeline: handshake verification plus the
// dedup -> classify -> normalize/reconcile flow for delivery notifications.
type Service interface {
	VerifyHandshake(mode string, token string, challenge string) (string, bool)
	ProcessPayload(ctx context.Context, payload dtos.WebhookPayload, rawBody []byte, remoteIP string)
}

type service struct {
	repo        Repository
	dedup       Deduplicator
	normalizer  *Normalizer
	reconciler  *Reconciler
	verifyToken string
}

func NewService(repo Repository, dedup Deduplicator, verifyToken string) Service {
	return &service{
		repo:        repo,
		dedup:       dedup,
		normalizer:  NewNormalizer(repo),
		reconciler:  NewReconciler(repo),
		verifyToken: verifyToken,
	}
}

// VerifyHandshake answers Meta's subscription challenge. The expected token is
// never echoed back on failure.
func (s *service) VerifyHandshake(mode string, token string, challenge string) (string, bool) {
	if mode != "subscribe" || s.verifyToken == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.verifyToken)) != 1 {
		log.Warn().Str("mode", mode).Msg(constant.INVALID_VERIFY_TOKEN)
		return "", false
	}
	return challenge, true
}

// ProcessPayload walks entry[].changes[] and handles each change in
// isolation. Nothing here fails the HTTP response: a structurally valid,
// correctly signed request is always acknowledged, or Meta retries
// indefinitely and amplifies load.
func (s *service) ProcessPayload(ctx context.Context, payload dtos.WebhookPayload, rawBody []byte, remoteIP string) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			s.processChange(ctx, entry, change, rawBody, remoteIP)
		}
	}
}

func (s *service) processChange(ctx context.Context, entry dtos.WebhookEntry, change dtos.WebhookChange, rawBody []byte, remoteIP string) {
	eventKey := fmt.Sprintf("%s:%s:%d", entry.ID, change.Field, entry.Time)
	kind := Classify(change.Field)

	logRow := &entities.WebhookLog{
		Source:     entities.ChannelWhatsApp,
		Field:      change.Field,
		EventKey:   eventKey,
		RawBody:    string(rawBody),
		ReceivedAt: time.Now().UTC(),
		IPAddress:  remoteIP,
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("event_key", eventKey).Msg("panic while processing webhook change")
			logRow.ProcessError = fmt.Sprintf("panic: %v", rec)
		}
		bestEffort(ctx, "webhook_log", func(ctx context.Context) error {
			return s.repo.InsertWebhookLog(ctx, logRow)
		})
	}()

	if s.dedup.IsDuplicate(ctx, eventKey) {
		log.Info().Str("event_key", eventKey).Msg(constant.DUPLICATE_EVENT)
		logRow.Processed = true
		logRow.ProcessError = "duplicate delivery"
		return
	}

	var failures []string
	switch kind {
	case EventMessages, EventStatuses:
		failures = s.handleMessages(ctx, change.Value, entities.DirectionInbound)
	case EventMessageEchoes:
		failures = s.handleMessages(ctx, change.Value, entities.DirectionOutbound)
	case EventAccountAlerts, EventAccountReviewUpdate, EventAccountUpdate,
		EventBusinessCapabilityUpdate, EventPhoneNumberQualityUpdate, EventPhoneNumberNameUpdate:
		log.Info().Str("field", change.Field).Str("event", change.Value.Event).Msg("account-level webhook recorded")
		s.recordProviderErrors(ctx, change.Value.Errors)
	case EventTemplateStatusUpdate:
		// Template lifecycle is managed elsewhere; traced, not processed.
		log.Info().Str("event_key", eventKey).Msg("template status update ignored")
	default:
		log.Warn().Str("field", change.Field).Str("event_key", eventKey).Msg(constant.UNKNOWN_WEBHOOK_FIELD)
	}

	logRow.Processed = len(failures) == 0
	logRow.ProcessError = strings.Join(failures, "; ")
}

// handleMessages reconciles statuses and ingests messages from one change
// value. Each message is its own failure scope so one malformed sibling never
// blocks the rest of the batch.
func (s *service) handleMessages(ctx context.Context, value dtos.WebhookValue, direction string) []string {
	var failures []string

	for _, upd := range value.Statuses {
		if err := s.reconciler.Apply(ctx, upd); err != nil {
			log.Error().Err(err).Str("external_message_id", upd.ID).Str("status", upd.Status).Msg("status reconciliation failed")
			failures = append(failures, err.Error())
		}
		s.recordProviderErrors(ctx, upd.Errors)
	}

	for _, msg := range value.Messages {
		if err := s.ingestMessage(ctx, msg, value, direction); err != nil {
			log.Error().Err(err).Str("external_message_id", msg.ID).Str("from", msg.From).Msg("message ingestion failed")
			failures = append(failures, err.Error())
		}
		s.recordProviderErrors(ctx, msg.Errors)
	}

	s.recordProviderErrors(ctx, value.Errors)
	return failures
}

func (s *service) ingestMessage(ctx context.Context, msg dtos.IncomingMessage, value dtos.WebhookValue, direction string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic ingesting message %s: %v", msg.ID, rec)
		}
	}()
	return s.normalizer.Ingest(ctx, msg, value.Metadata, value.Contacts, direction)
}

// recordProviderErrors appends provider-reported errors to the audit table;
// best effort, the monitor UI reads them.
func (s *service) recordProviderErrors(ctx context.Context, details []dtos.ErrorDetail) {
	for _, detail := range details {
		detail := detail
		bestEffort(ctx, "webhook_error", func(ctx context.Context) error {
			return s.repo.InsertWebhookError(ctx, &entities.WebhookError{
				Code:       detail.Code,
				Title:      detail.Title,
				Message:    detail.Message,
				Details:    detail.ErrorData.Details,
				OccurredAt: time.Now().UTC(),
			})
		})
	}
}
