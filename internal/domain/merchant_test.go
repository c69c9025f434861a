package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, CurrencyIDR, NormalizeCurrency("IDR"))
	assert.Equal(t, CurrencyAUD, NormalizeCurrency("AUD"))
	assert.Equal(t, CurrencyIDR, NormalizeCurrency(""))
	assert.Equal(t, CurrencyIDR, NormalizeCurrency("USD"))
	assert.Equal(t, CurrencyIDR, NormalizeCurrency("aud"), "codes are case sensitive")
}
