package kernel_test

import (
	"testing"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "upper case", input: "AUD", want: "AUD"},
		{name: "normalises case and spaces", input: " usd ", want: "USD"},
		{name: "too short", input: "EU", wantErr: true},
		{name: "digits", input: "U5D", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := kernel.NewCurrency(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
			require.NoError(t, c.Validate())
		})
	}
}

func TestCurrency_ZeroValue(t *testing.T) {
	var c kernel.Currency

	require.ErrorIs(t, c.Validate(), kernel.ErrCurrencyIsNotConstructed)
	assert.True(t, kernel.MustCurrency("eur").IsEqual(kernel.MustCurrency("EUR")))
}
