package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// bestEffortTimeout boxes non-essential side effects so a slow audit insert
// cannot push the webhook response past Meta's timeout window.
const bestEffortTimeout = 2 * time.Second

// bestEffort is the single policy layer for non-essential steps: run with an
// own deadline, log failures, never propagate them.
func bestEffort(ctx context.Context, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("step", name).Msg("best-effort step failed")
	}
}

// Normalizer converts provider message shapes into the canonical Message
// record and resolves or creates the owning Lead.
type Normalizer struct {
	repo Repository
}

func NewNormalizer(repo Repository) *Normalizer {
	return &Normalizer{
		repo: repo,
	}
}

// PhoneCandidates returns the stored-format variants tried against the lead
// table: as received, with a leading +, and without it. Upstream writers are
// not consistent about the prefix.
func PhoneCandidates(phone string) []string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	candidates := []string{phone}
	if strings.HasPrefix(phone, "+") {
		candidates = append(candidates, strings.TrimPrefix(phone, "+"))
	} else {
		candidates = append(candidates, "+"+phone)
	}
	return candidates
}

// Normalize is the pure transform: content type is decided by which content
// object is present, and an unrecognized shape degrades to "unknown" with the
// raw object embedded rather than dropped.
func (n *Normalizer) Normalize(msg dtos.IncomingMessage, meta dtos.WebhookMetadata, direction string) *entities.Message {
	ts := dtos.UnixTime(msg.Timestamp)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	m := &entities.Message{
		ExternalMessageID: msg.ID,
		Direction:         direction,
		Channel:           entities.ChannelWhatsApp,
		FromNumber:        msg.From,
		ToNumber:          meta.DisplayPhoneNumber,
		PhoneNumberID:     meta.PhoneNumberID,
		Status:            entities.StatusReceived,
		ReceivedAt:        &ts,
	}
	if direction == entities.DirectionOutbound {
		m.Status = entities.StatusSent
		m.ReceivedAt = nil
		m.SentAt = &ts
		m.FromNumber = meta.DisplayPhoneNumber
		m.ToNumber = msg.To
	}

	switch {
	case msg.Text != nil:
		m.ContentType = entities.ContentTypeText
		m.Body = msg.Text.Body
	case msg.Image != nil:
		m.ContentType = entities.ContentTypeImage
		m.MediaID = msg.Image.ID
		m.MediaMimeType = msg.Image.MimeType
		m.MediaSha256 = msg.Image.Sha256
		m.MediaCaption = msg.Image.Caption
	case msg.Video != nil:
		m.ContentType = entities.ContentTypeVideo
		m.MediaID = msg.Video.ID
		m.MediaMimeType = msg.Video.MimeType
		m.MediaSha256 = msg.Video.Sha256
		m.MediaCaption = msg.Video.Caption
	case msg.Document != nil:
		m.ContentType = entities.ContentTypeDocument
		m.MediaID = msg.Document.ID
		m.MediaMimeType = msg.Document.MimeType
		m.MediaSha256 = msg.Document.Sha256
		m.MediaCaption = msg.Document.Caption
		m.Filename = msg.Document.Filename
	case msg.Audio != nil:
		m.ContentType = entities.ContentTypeAudio
		m.MediaID = msg.Audio.ID
		m.MediaMimeType = msg.Audio.MimeType
		m.MediaSha256 = msg.Audio.Sha256
	case msg.Location != nil:
		m.ContentType = entities.ContentTypeLocation
		m.Latitude = msg.Location.Latitude
		m.Longitude = msg.Location.Longitude
		m.LocationName = msg.Location.Name
		m.LocationAddress = msg.Location.Address
	case len(msg.Interactive) > 0:
		m.ContentType = entities.ContentTypeInteractive
		m.RawContent = string(msg.Interactive)
	default:
		m.ContentType = entities.ContentTypeUnknown
		if raw, err := json.Marshal(msg); err == nil {
			m.RawContent = string(raw)
		}
	}

	return m
}

// Ingest runs the full per-message flow: normalize, resolve or create the
// lead, persist idempotently, backfill the lead reference, then the
// best-effort audit trail. Errors are returned for per-message containment by
// the dispatcher, never for the whole request.
func (n *Normalizer) Ingest(ctx context.Context, msg dtos.IncomingMessage, meta dtos.WebhookMetadata, contacts []dtos.WebhookContact, direction string) error {
	m := n.Normalize(msg, meta, direction)

	leadPhone := msg.From
	if direction == entities.DirectionOutbound {
		leadPhone = msg.To
	}

	lead, found, err := n.resolveLead(ctx, leadPhone)
	if err != nil {
		return fmt.Errorf("lead lookup for %s: %w", leadPhone, err)
	}
	if found {
		m.LeadID = &lead.ID
	}

	if err := n.repo.InsertMessage(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Info().Str("external_message_id", msg.ID).Msg(constant.MESSAGE_ALREADY_SEEN)
			return nil
		}
		return fmt.Errorf("insert message %s: %w", msg.ID, err)
	}

	// Auto-create the lead after a successful insert and backfill the
	// reference; inbound traffic only, echoes never open leads.
	if !found && direction == entities.DirectionInbound {
		lead = entities.Lead{
			ContactPhone: leadPhone,
			Name:         contactName(contacts, leadPhone),
			Source:       entities.ChannelWhatsApp,
		}
		if err := n.repo.CreateLead(ctx, &lead); err != nil {
			return fmt.Errorf("create lead for %s: %w", leadPhone, err)
		}
		found = true
		m.LeadID = &lead.ID
		if err := n.repo.UpdateMessageLead(ctx, m.ID, lead.ID); err != nil {
			return fmt.Errorf("backfill lead on message %s: %w", msg.ID, err)
		}
		log.Info().Str("phone", leadPhone).Uint("lead_id", lead.ID).Msg(constant.LEAD_AUTO_CREATED)
	}

	if found || m.ContentType == entities.ContentTypeText {
		bestEffort(ctx, "activity", func(ctx context.Context) error {
			return n.repo.InsertActivity(ctx, &entities.Activity{
				LeadID:      lead.ID,
				Type:        "whatsapp_message",
				Description: snippet(m),
			})
		})
	}

	if found && lead.AssignedUserID != nil {
		bestEffort(ctx, "notification", func(ctx context.Context) error {
			return n.repo.InsertNotification(ctx, &entities.Notification{
				UserID: *lead.AssignedUserID,
				LeadID: &lead.ID,
				Title:  "New WhatsApp message",
				Body:   snippet(m),
			})
		})
	}

	return nil
}

func (n *Normalizer) resolveLead(ctx context.Context, phone string) (entities.Lead, bool, error) {
	candidates := PhoneCandidates(phone)
	if len(candidates) == 0 {
		return entities.Lead{}, false, nil
	}

	lead, err := n.repo.FindLeadByPhone(ctx, candidates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Lead{}, false, nil
		}
		return entities.Lead{}, false, err
	}
	return lead, true, nil
}

func contactName(contacts []dtos.WebhookContact, phone string) string {
	digits := strings.TrimPrefix(phone, "+")
	for _, c := range contacts {
		if c.WaID == digits && c.Profile.Name != "" {
			return c.Profile.Name
		}
	}
	return fmt.Sprintf("WhatsApp %s", digits)
}

func snippet(m *entities.Message) string {
	if m.ContentType == entities.ContentTypeText {
		body := m.Body
		if len(body) > 120 {
			body = body[:120]
		}
		return body
	}
	return fmt.Sprintf("[%s message]", m.ContentType)
}
