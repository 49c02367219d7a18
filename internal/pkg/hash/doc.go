// Package hash provides helpers for hashing and verifying secrets.
//
// Reset codes are never stored in plaintext: store only the hash, then verify
// user input by comparing the plaintext against the stored hash.
// Implementations live in this package behind a small interface.
package hash
