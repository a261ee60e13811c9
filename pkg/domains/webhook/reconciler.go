package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// statusRank is the total order behind the monotonic transition check.
// "failed" sits outside the linear order and is terminal once set.
var statusRank = map[string]int{
	entities.StatusReceived:  0,
	entities.StatusSent:      1,
	entities.StatusDelivered: 2,
	entities.StatusRead:      3,
}

// Reconciler applies delivery-status notifications to stored outbound
// messages. Meta does not deliver webhooks in order; the monotonic check here
// is what keeps the message state correct under reordering, without any lock.
type Reconciler struct {
	repo Repository
}

func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{
		repo: repo,
	}
}

// Apply performs one transition. Out-of-order and replayed updates are
// ignored, each with a trace; an update for a message that was never stored is
// dropped with a log line, since Meta may notify about messages outside our
// retention window.
func (r *Reconciler) Apply(ctx context.Context, upd dtos.StatusUpdate) error {
	message, err := r.repo.FindMessageByExternalID(ctx, upd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().Str("external_message_id", upd.ID).Str("status", upd.Status).Msg("status update for unknown message dropped")
			return nil
		}
		return fmt.Errorf("lookup message %s: %w", upd.ID, err)
	}

	ts := dtos.UnixTime(upd.Timestamp)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	if message.Status == entities.StatusFailed {
		// cannot un-fail
		log.Info().Str("external_message_id", upd.ID).Str("status", upd.Status).Msg(constant.STATUS_OUT_OF_ORDER)
		return nil
	}

	if upd.Status == entities.StatusFailed {
		if message.Status == entities.StatusRead {
			log.Info().Str("external_message_id", upd.ID).Msg(constant.STATUS_OUT_OF_ORDER)
			return nil
		}
		message.Status = entities.StatusFailed
		if message.FailedAt == nil {
			message.FailedAt = &ts
		}
		if len(upd.Errors) > 0 {
			message.FailureCode = upd.Errors[0].Code
			message.FailureTitle = upd.Errors[0].Title
			message.FailureDetails = upd.Errors[0].ErrorData.Details
		}
	} else {
		newRank, known := statusRank[upd.Status]
		if !known {
			log.Warn().Str("external_message_id", upd.ID).Str("status", upd.Status).Msg("unrecognized status value dropped")
			return nil
		}
		if newRank <= statusRank[message.Status] {
			log.Info().Str("external_message_id", upd.ID).
				Str("current", message.Status).Str("incoming", upd.Status).
				Msg(constant.STATUS_OUT_OF_ORDER)
			return nil
		}

		message.Status = upd.Status
		switch upd.Status {
		case entities.StatusSent:
			if message.SentAt == nil {
				message.SentAt = &ts
			}
		case entities.StatusDelivered:
			if message.DeliveredAt == nil {
				message.DeliveredAt = &ts
			}
		case entities.StatusRead:
			if message.ReadAt == nil {
				message.ReadAt = &ts
			}
		}
	}

	mergeStatusMetadata(&message, upd)

	if err := r.repo.UpdateMessageStatus(ctx, &message); err != nil {
		return fmt.Errorf("update status of %s: %w", upd.ID, err)
	}
	return nil
}

// mergeStatusMetadata folds conversation and pricing details into the message
// without touching unrelated fields; absent metadata never clears stored
// values.
func mergeStatusMetadata(message *entities.Message, upd dtos.StatusUpdate) {
	if upd.Conversation != nil {
		message.ConversationID = upd.Conversation.ID
		message.ConversationOrigin = upd.Conversation.Origin.Type
		if exp := dtos.UnixTime(upd.Conversation.ExpirationTimestamp); !exp.IsZero() {
			message.ConversationExpiresAt = &exp
		}
	}
	if upd.Pricing != nil {
		message.PricingModel = upd.Pricing.PricingModel
		message.PricingCategory = upd.Pricing.Category
		message.Billable = upd.Pricing.Billable
	}
}
