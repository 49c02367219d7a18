package entity

// TriggerKey identifies what caused a notification to be sent.
type TriggerKey string

const (
	// TriggerKeyResetCode is the delivery of a password reset code.
	TriggerKeyResetCode TriggerKey = "reset_code"
)

// String returns the raw trigger key value.
func (t TriggerKey) String() string {
	return string(t)
}
