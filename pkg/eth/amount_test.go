package eth

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		amount string
		wei    string
	}{
		{"1", "1000000000000000000"},
		{"0.01", "10000000000000000"},
		{"0.000000000000000001", "1"},
		{"12.5", "12500000000000000000"},
		{".5", "500000000000000000"},
		{"0", "0"},
	}

	for _, tt := range tests {
		wei, err := ParseEther(tt.amount)
		assert.NoError(t, err, tt.amount)
		assert.Equal(t, tt.wei, wei.String(), tt.amount)
	}
}

func TestParseEther_Invalid(t *testing.T) {
	for _, amount := range []string{"", "-1", "abc", "1.2.3", "0.0000000000000000001"} {
		_, err := ParseEther(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}

func TestFormatEther(t *testing.T) {
	wei, _ := new(big.Int).SetString("10000000000000000", 10)
	assert.Equal(t, "0.01", FormatEther(wei))
	assert.Equal(t, "0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "2", FormatEther(new(big.Int).Mul(big.NewInt(2), weiPerEther)))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "1.337", "42"} {
		wei, err := ParseEther(amount)
		assert.NoError(t, err)
		assert.Equal(t, amount, FormatEther(wei))
	}
}

func TestShortAddr(t *testing.T) {
	addr := common.HexToAddress("0xa9AAd51507Bee07E39391Ddaeb28F4647A7e9965")
	assert.Equal(t, "0xa9AA...9965", ShortAddr(addr))
}
