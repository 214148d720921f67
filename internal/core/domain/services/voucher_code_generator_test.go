package services_test

import (
	"testing"

	"catering/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherCodeGenerator_Next(t *testing.T) {
	gen := services.NewVoucherCodeGenerator(nil)
	seen := make(map[string]struct{})

	for range 200 {
		code, err := gen.Next()
		require.NoError(t, err)
		require.Regexp(t, `^[QWRTPSDFGHJKZXCVBNM]{3}[2-9][QWRTPSDFGHJKZXCVBNM]{3}[2-9]$`, code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 190)
}

func TestVoucherCodeSpace(t *testing.T) {
	assert.Equal(t, int64(19*19*19*8*19*19*19*8), services.VoucherCodeSpace)
}
