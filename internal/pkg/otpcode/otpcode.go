package otpcode

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Digits is the fixed width of generated codes.
const Digits = 6

// rangeSize covers [100000, 999999]: every draw is a 6-digit number.
var rangeSize = big.NewInt(900000)

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric is the production Generator backed by crypto/rand.
type Numeric struct{}

// NewNumeric returns a Numeric code generator.
func NewNumeric() *Numeric {
	return &Numeric{}
}

// Generate returns a uniformly random 6-digit code.
func (*Numeric) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, rangeSize)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
