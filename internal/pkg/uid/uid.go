package uid

// StringID generates string identifiers (correlation IDs, tokens).
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers (event IDs, limiter members).
type NumberID interface {
	Generate() int64
}
