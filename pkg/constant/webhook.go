package constant

const (
	WEBHOOK_VERIFIED      = "Webhook verified successfully"
	WEBHOOK_ACK           = "OK"
	INVALID_SIGNATURE     = "Invalid webhook signature"
	MISSING_SIGNATURE     = "Missing webhook signature"
	SIGNATURE_NOT_SET     = "Webhook app secret is not configured"
	INVALID_VERIFY_TOKEN  = "Invalid verification token"
	INVALID_PAYLOAD       = "Invalid webhook payload"
	DUPLICATE_EVENT       = "Duplicate webhook event"
	LEAD_AUTO_CREATED     = "Lead created from inbound WhatsApp message"
	MESSAGE_ALREADY_SEEN  = "Message already stored"
	STATUS_OUT_OF_ORDER   = "Status transition out of order"
	UNKNOWN_WEBHOOK_FIELD = "Unknown webhook field"
)
