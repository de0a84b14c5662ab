package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// referralCodeLength is the length of generated referral codes.
const referralCodeLength = 8

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxReferralAttempts bounds the collision retry loop. With 36^8 possible
// codes a collision is already vanishingly unlikely on the first draw.
const maxReferralAttempts = 5

// generateReferralCode returns a random uppercase alphanumeric code.
func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(buf), nil
}

// uniqueReferralCode draws codes until one is unused. Uniqueness is also
// enforced by the store's constraint; this pre-check just keeps the friendly
// error path dominant.
func (s *Service) uniqueReferralCode(ctx context.Context) (string, error) {
	for range maxReferralAttempts {
		code, err := generateReferralCode()
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}

		_, err = s.storage.FindByReferralCode(ctx, code)
		if errors.Is(err, ErrPrincipalNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Collision; draw again.
	}
	return "", fmt.Errorf("exhausted %d referral code attempts", maxReferralAttempts)
}
