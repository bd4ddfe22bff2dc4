package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spec-kit/booking-service/internal/domain"
)

const (
	bookingIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bookingIDLength   = 8
	digits            = "0123456789"
	otpLength         = 4
	usernameSuffixLen = 4
)

// randomString draws n characters uniformly from alphabet.
func randomString(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// GenerateBookingID returns "APPT-" followed by 8 characters from [A-Z0-9].
func GenerateBookingID() (string, error) {
	suffix, err := randomString(bookingIDAlphabet, bookingIDLength)
	if err != nil {
		return "", err
	}
	return domain.BookingIDPrefix + suffix, nil
}

// GenerateOTPCode returns a 4 digit code, leading zeros included.
func GenerateOTPCode() (string, error) {
	return randomString(digits, otpLength)
}

// DeriveUsername builds "<local-part>_<4 digits>" from an email address.
// Collisions are not retried; the unique constraint rejects them.
func DeriveUsername(email string) (string, error) {
	suffix, err := randomString(digits, usernameSuffixLen)
	if err != nil {
		return "", err
	}
	return domain.EmailLocalPart(email) + "_" + suffix, nil
}
