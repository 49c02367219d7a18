package instrument

import "context"

type correlationIDKey struct{}

// invalidCorrelationID is returned when the context carries a value of the wrong type.
const invalidCorrelationID = "[invalid_chain_id]"

// SetCorrelationID stores the correlation ID in the context.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID stored in the context, or an
// empty string when none is set.
func GetCorrelationID(ctx context.Context) string {
	val := ctx.Value(correlationIDKey{})
	if val == nil {
		return ""
	}

	cID, ok := val.(string)
	if !ok {
		return invalidCorrelationID
	}

	return cID
}
