package webhook

import (
	"context"
	"testing"

	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
)

const testVerifyToken = "my_test_verify_token"

func deliveryPayload(field string, value dtos.WebhookValue) dtos.WebhookPayload {
	return dtos.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []dtos.WebhookEntry{{
			ID:      "1234567890",
			Time:    1700000000,
			Changes: []dtos.WebhookChange{{Field: field, Value: value}},
		}},
	}
}

func TestVerifyHandshake(t *testing.T) {
	s := NewService(&fakeRepo{}, newFakeDedup(), testVerifyToken)

	echo, ok := s.VerifyHandshake("subscribe", testVerifyToken, "1158201444")
	if !ok || echo != "1158201444" {
		t.Errorf("expected challenge echo, got %q ok=%v", echo, ok)
	}

	if _, ok := s.VerifyHandshake("subscribe", "wrong_token", "12345"); ok {
		t.Error("wrong token must be rejected")
	}
	if _, ok := s.VerifyHandshake("unsubscribe", testVerifyToken, "12345"); ok {
		t.Error("wrong mode must be rejected")
	}
}

func TestVerifyHandshake_NoConfiguredToken(t *testing.T) {
	s := NewService(&fakeRepo{}, newFakeDedup(), "")

	if _, ok := s.VerifyHandshake("subscribe", "", "12345"); ok {
		t.Error("empty configured token must never verify")
	}
}

func TestProcessPayload_DuplicateDeliverySuppressed(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	payload := deliveryPayload("messages", dtos.WebhookValue{
		Metadata: testMeta,
		Messages: []dtos.IncomingMessage{textMessage("wamid.dup", "447911123456", "hello", "1700000000")},
	})

	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	if len(repo.messages) != 1 {
		t.Errorf("duplicate delivery produced %d messages, want 1", len(repo.messages))
	}
	if len(repo.logs) != 2 {
		t.Errorf("both deliveries should be audit-logged, got %d", len(repo.logs))
	}
}

func TestProcessPayload_UnknownFieldAcknowledged(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	payload := deliveryPayload("some_future_field", dtos.WebhookValue{})
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	if len(repo.messages) != 0 {
		t.Errorf("unknown field must not create messages, got %d", len(repo.messages))
	}
	if len(repo.logs) != 1 || !repo.logs[0].Processed {
		t.Errorf("unknown field must still be audit-logged as handled: %+v", repo.logs)
	}
}

func TestProcessPayload_MalformedSiblingDoesNotBlockBatch(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	payload := deliveryPayload("messages", dtos.WebhookValue{
		Metadata: testMeta,
		Messages: []dtos.IncomingMessage{
			// no content at all, normalizes to unknown but still stores
			{ID: "wamid.a", From: "447911123456", Timestamp: "1700000000"},
			textMessage("wamid.b", "447911123457", "second", "1700000001"),
		},
	})
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	if len(repo.messages) != 2 {
		t.Errorf("expected both siblings stored, got %d", len(repo.messages))
	}
}

func TestProcessPayload_StatusesInsideMessagesField(t *testing.T) {
	repo := &fakeRepo{}
	seedOutboundMessage(repo, "wamid.out", entities.StatusSent)
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	payload := deliveryPayload("messages", dtos.WebhookValue{
		Metadata: testMeta,
		Statuses: []dtos.StatusUpdate{{ID: "wamid.out", Status: "delivered", Timestamp: "1700000100"}},
	})
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	m, _ := repo.FindMessageByExternalID(context.Background(), "wamid.out")
	if m.Status != entities.StatusDelivered {
		t.Errorf("status = %q, want delivered", m.Status)
	}
}

func TestProcessPayload_TemplateUpdateIsTracedNoOp(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	payload := deliveryPayload("message_template_status_update", dtos.WebhookValue{Event: "APPROVED"})
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	if len(repo.logs) != 1 {
		t.Errorf("template update must leave a trace, got %d logs", len(repo.logs))
	}
	if len(repo.messages) != 0 {
		t.Errorf("template update must not touch messages, got %d", len(repo.messages))
	}
}

func TestProcessPayload_ProviderErrorsRecorded(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, newFakeDedup(), testVerifyToken)

	value := dtos.WebhookValue{Event: "DISABLED_UPDATE"}
	value.Errors = []dtos.ErrorDetail{{Code: 131042, Title: "Business eligibility payment issue"}}
	payload := deliveryPayload("account_alerts", value)
	s.ProcessPayload(context.Background(), payload, []byte("{}"), "127.0.0.1")

	if len(repo.webhookErrors) != 1 || repo.webhookErrors[0].Code != 131042 {
		t.Errorf("provider error not recorded: %+v", repo.webhookErrors)
	}
}
