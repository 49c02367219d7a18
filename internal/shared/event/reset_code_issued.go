package event

const ResetCodeIssuedDestination string = "reset_code_issued"
const ResetCodeIssuedConsumerNotification string = "reset_code_issued_notification"

type ResetCodeIssuedMessage struct {
	EventID   int64  `json:"event_id"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}
