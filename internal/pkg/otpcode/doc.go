// Package otpcode generates short numeric one-time codes.
//
// Codes are drawn uniformly from a fixed-width numeric space using crypto/rand,
// so a 6-digit code is always exactly 6 ASCII digits and never collapses a
// leading zero.
package otpcode
