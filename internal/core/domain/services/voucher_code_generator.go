package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// voucherConsonants drops vowels, so codes never spell words, and L, which
	// reads like 1.
	voucherConsonants = "QWRTPSDFGHJKZXCVBNM"
	// voucherDigits drops 0 and 1, which read like O and I.
	voucherDigits = "23456789"
)

// voucherCodeLayout is CCC D CCC D: consonant groups separated by digits.
var voucherCodeLayout = []string{
	voucherConsonants, voucherConsonants, voucherConsonants, voucherDigits,
	voucherConsonants, voucherConsonants, voucherConsonants, voucherDigits,
}

// VoucherCodeSpace is the number of distinct codes the generator can produce (19^6 * 8^2).
var VoucherCodeSpace = func() int64 {
	n := int64(1)
	for _, alphabet := range voucherCodeLayout {
		n *= int64(len(alphabet))
	}
	return n
}()

// VoucherCodeGenerator draws uniformly random voucher codes.
type VoucherCodeGenerator struct {
	random io.Reader
}

// NewVoucherCodeGenerator uses crypto/rand when random is nil.
func NewVoucherCodeGenerator(random io.Reader) *VoucherCodeGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &VoucherCodeGenerator{random: random}
}

// Next returns a fresh 8 character code such as "QWR2TPS3".
func (g *VoucherCodeGenerator) Next() (string, error) {
	code := make([]byte, len(voucherCodeLayout))
	for i, alphabet := range voucherCodeLayout {
		n, err := rand.Int(g.random, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("draw voucher code: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
