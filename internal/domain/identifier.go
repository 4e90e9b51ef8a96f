package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MaxIdentifierDigits is the longest accepted identifier, a SHA-256 digest.
const MaxIdentifierDigits = 64

// DecodeIdentifier turns an identifier such as a UUID into the bytes its hex
// digits encode. Hyphens are ignored wherever they appear. The remaining text
// must be a non-empty, even-length run of at most MaxIdentifierDigits hex
// digits.
func DecodeIdentifier(id string) ([]byte, error) {
	digits := strings.ReplaceAll(id, "-", "")
	if digits == "" {
		return nil, &InvalidIdentifierError{Identifier: id, Reason: "no hex digits"}
	}
	if len(digits) > MaxIdentifierDigits {
		return nil, &InvalidIdentifierError{Identifier: id, Reason: fmt.Sprintf("more than %d hex digits", MaxIdentifierDigits)}
	}

	out, err := hex.DecodeString(digits)
	if err != nil {
		reason := "non-hex character"
		if errors.Is(err, hex.ErrLength) {
			reason = "odd number of hex digits"
		}
		return nil, &InvalidIdentifierError{Identifier: id, Reason: reason}
	}
	return out, nil
}

// Nibbles splits each byte into its high and low half, high first.
func Nibbles(data []byte) []uint8 {
	out := make([]uint8, 0, 2*len(data))
	for _, b := range data {
		out = append(out, (b>>4)&0xF, b&0xF)
	}
	return out
}
