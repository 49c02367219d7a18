package hash

// Hash hashes plaintext secrets and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hashed form of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify returns true when plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
