package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
	"gorm.io/gorm"
)

func seedOutboundMessage(repo *fakeRepo, externalID string, status string) {
	sentAt := time.Unix(1700000000, 0).UTC()
	repo.messages = append(repo.messages, &entities.Message{
		Model:             gorm.Model{ID: repo.id()},
		ExternalMessageID: externalID,
		Direction:         entities.DirectionOutbound,
		Channel:           entities.ChannelWhatsApp,
		ContentType:       entities.ContentTypeText,
		Status:            status,
		SentAt:            &sentAt,
	})
}

func TestApply_ForwardTransition(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.1", entities.StatusSent)
	r := NewReconciler(repo)

	err := r.Apply(context.Background(), dtos.StatusUpdate{
		ID: "wamid.1", Status: "delivered", Timestamp: "1700000100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.1")
	if m.Status != entities.StatusDelivered {
		t.Errorf("status = %q, want delivered", m.Status)
	}
	if m.DeliveredAt == nil || m.DeliveredAt.Unix() != 1700000100 {
		t.Errorf("DeliveredAt not set from update timestamp: %v", m.DeliveredAt)
	}
}

func TestApply_ReorderedReadThenDelivered(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.2", entities.StatusSent)
	r := NewReconciler(repo)

	if err := r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.2", Status: "read", Timestamp: "1700000200"}); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if err := r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.2", Status: "delivered", Timestamp: "1700000150"}); err != nil {
		t.Fatalf("delivered update: %v", err)
	}

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.2")
	if m.Status != entities.StatusRead {
		t.Errorf("status = %q, want read (later state wins)", m.Status)
	}
	if m.DeliveredAt != nil {
		t.Errorf("DeliveredAt must stay unset when read arrived first, got %v", m.DeliveredAt)
	}
	if m.ReadAt == nil {
		t.Error("ReadAt should be set")
	}
}

func TestApply_ReplayedStatusIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.3", entities.StatusSent)
	r := NewReconciler(repo)

	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.3", Status: "delivered", Timestamp: "1700000100"})
	first, _ := repo.FindMessageByExternalID(context.Background(), "wamid.3")

	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.3", Status: "delivered", Timestamp: "1700000999"})
	second, _ := repo.FindMessageByExternalID(context.Background(), "wamid.3")

	if !second.DeliveredAt.Equal(*first.DeliveredAt) {
		t.Errorf("replay overwrote DeliveredAt: %v -> %v", first.DeliveredAt, second.DeliveredAt)
	}
}

func TestApply_UnknownMessageDropped(t *testing.T) {
	repo := &fakeRepo{}
	r := NewReconciler(repo)

	if err := r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.missing", Status: "delivered", Timestamp: "1700000100"}); err != nil {
		t.Fatalf("unknown message must be dropped silently, got %v", err)
	}
	if len(repo.messages) != 0 {
		t.Errorf("no message should be created, got %d", len(repo.messages))
	}
}

func TestApply_FailedIsTerminal(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.4", entities.StatusSent)
	r := NewReconciler(repo)

	upd := dtos.StatusUpdate{ID: "wamid.4", Status: "failed", Timestamp: "1700000100"}
	upd.Errors = []dtos.ErrorDetail{{Code: 131047, Title: "Re-engagement message"}}
	r.Apply(context.Background(), upd)

	// cannot un-fail
	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.4", Status: "delivered", Timestamp: "1700000200"})

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.4")
	if m.Status != entities.StatusFailed {
		t.Errorf("status = %q, want failed", m.Status)
	}
	if m.FailureCode != 131047 {
		t.Errorf("failure code = %d, want 131047", m.FailureCode)
	}
	if m.DeliveredAt != nil {
		t.Error("DeliveredAt must not be set after failure")
	}
}

func TestApply_FailedNotReachableFromRead(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.5", entities.StatusSent)
	r := NewReconciler(repo)

	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.5", Status: "read", Timestamp: "1700000100"})
	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.5", Status: "failed", Timestamp: "1700000200"})

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.5")
	if m.Status != entities.StatusRead {
		t.Errorf("status = %q, want read", m.Status)
	}
}

func TestApply_MergesPricingAndConversation(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.6", entities.StatusSent)
	r := NewReconciler(repo)

	upd := dtos.StatusUpdate{ID: "wamid.6", Status: "delivered", Timestamp: "1700000100"}
	upd.Conversation = &dtos.Conversation{ID: "conv-1", Origin: dtos.ConversationOrigin{Type: "service"}}
	upd.Pricing = &dtos.Pricing{Billable: true, PricingModel: "CBP", Category: "service"}
	r.Apply(context.Background(), upd)

	// A later update without metadata must not clear the stored values
	r.Apply(context.Background(), dtos.StatusUpdate{ID: "wamid.6", Status: "read", Timestamp: "1700000300"})

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.6")
	if m.ConversationID != "conv-1" || m.ConversationOrigin != "service" {
		t.Errorf("conversation metadata lost: %q/%q", m.ConversationID, m.ConversationOrigin)
	}
	if !m.Billable || m.PricingModel != "CBP" {
		t.Errorf("pricing metadata lost: billable=%v model=%q", m.Billable, m.PricingModel)
	}
}
