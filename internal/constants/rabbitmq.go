package constants

const (
	LeadsExchange           = "leads_exchange"
	RoutingKeyLeadSubmitted = "leads.submitted"

	LeadNotificationsQueue = "lead_notifications_queue"
	LeadsRetryExchange     = "leads_retry_exchange"
	LeadsRetryQueue        = "lead_notifications_wait_queue"
	LeadsFinalDLX          = "leads_final_dlx"
	LeadsFinalDLQ          = "lead_notifications_final_dlq"
	LeadsFinalRoutingKey   = "final"

	LeadSubmittedEventType    = "LeadSubmittedEvent"
	LeadSubmittedEventVersion = "1.0.0"
)
