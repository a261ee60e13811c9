package webhook

// EventKind is the closed set of webhook change fields the pipeline knows
// about. Anything else classifies as EventUnknown, which is logged and
// acknowledged, never an error: Meta retries on non-200, and a retry storm
// over a harmless future field would be self-inflicted.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventMessages
	EventMessageEchoes
	EventStatuses
	EventAccountAlerts
	EventAccountReviewUpdate
	EventAccountUpdate
	EventBusinessCapabilityUpdate
	EventPhoneNumberQualityUpdate
	EventPhoneNumberNameUpdate
	EventTemplateStatusUpdate
)

// Classify maps the change.field discriminator to an EventKind.
func Classify(field string) EventKind {
	switch field {
	case "messages":
		return EventMessages
	case "message_echoes":
		return EventMessageEchoes
	case "statuses":
		return EventStatuses
	case "account_alerts":
		return EventAccountAlerts
	case "account_review_update":
		return EventAccountReviewUpdate
	case "account_update":
		return EventAccountUpdate
	case "business_capability_update":
		return EventBusinessCapabilityUpdate
	case "phone_number_quality_update":
		return EventPhoneNumberQualityUpdate
	case "phone_number_name_update":
		return EventPhoneNumberNameUpdate
	case "message_template_status_update":
		return EventTemplateStatusUpdate
	default:
		return EventUnknown
	}
}

func (k EventKind) String() string {
	switch k {
	case EventMessages:
		return "messages"
	case EventMessageEchoes:
		return "message_echoes"
	case EventStatuses:
		return "statuses"
	case EventAccountAlerts:
		return "account_alerts"
	case EventAccountReviewUpdate:
		return "account_review_update"
	case EventAccountUpdate:
		return "account_update"
	case EventBusinessCapabilityUpdate:
		return "business_capability_update"
	case EventPhoneNumberQualityUpdate:
		return "phone_number_quality_update"
	case EventPhoneNumberNameUpdate:
		return "phone_number_name_update"
	case EventTemplateStatusUpdate:
		return "message_template_status_update"
	default:
		return "unknown"
	}
}
