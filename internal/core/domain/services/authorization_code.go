package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/pkg/errs"

	"golang.org/x/crypto/hkdf"
)

// MinAuthorizationSecretLength is the minimum length of the process secret, in bytes.
const MinAuthorizationSecretLength = 32

var (
	authorizationCodeSalt = []byte("catering-orders")
	authorizationCodeInfo = []byte("order-authorization-code")
)

// AuthorizationCodeScheme computes HMAC-SHA256(orderID, paymentToken) under a key
// derived once from the process secret.
type AuthorizationCodeScheme struct {
	key []byte
}

// NewAuthorizationCodeScheme derives the HMAC key from secret with HKDF-SHA256.
func NewAuthorizationCodeScheme(secret []byte) (*AuthorizationCodeScheme, error) {
	if len(secret) < MinAuthorizationSecretLength {
		return nil, errs.NewValueIsOutOfRangeError(
			"authorization secret length", len(secret), MinAuthorizationSecretLength, "unbounded",
		)
	}

	reader := hkdf.New(sha256.New, secret, authorizationCodeSalt, authorizationCodeInfo)
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive authorization key: %w", err)
	}

	return &AuthorizationCodeScheme{key: key}, nil
}

// Derive returns the lowercase hex authorization code for the order and token.
func (s *AuthorizationCodeScheme) Derive(orderID kernel.UUID, paymentToken string) string {
	return hex.EncodeToString(s.mac(orderID, paymentToken))
}

// Verify recomputes the code and compares it in constant time. Any mismatch,
// including malformed input, is a ForbiddenError.
func (s *AuthorizationCodeScheme) Verify(code string, orderID kernel.UUID, paymentToken string) error {
	provided, err := hex.DecodeString(code)
	if err != nil || !hmac.Equal(provided, s.mac(orderID, paymentToken)) {
		return errs.NewForbiddenError("authorization code does not match order " + orderID.String())
	}
	return nil
}

func (s *AuthorizationCodeScheme) mac(orderID kernel.UUID, paymentToken string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(orderID.String()))
	h.Write([]byte{0})
	h.Write([]byte(paymentToken))
	return h.Sum(nil)
}
