package eth

import (
	"errors"
	"math/big"
	"strings"
)

const weiDecimals = 18

var (
	ErrInvalidAmount = errors.New("invalid amount")

	weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(weiDecimals), nil)
)

// ParseEther converts a decimal ETH string ("0.01") into wei. Amounts with
// more than 18 fractional digits or a negative sign are rejected.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") {
		return nil, ErrInvalidAmount
	}

	parts := strings.SplitN(amount, ".", 2)
	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > weiDecimals {
		return nil, ErrInvalidAmount
	}
	frac = frac + strings.Repeat("0", weiDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}

	return wei, nil
}

// FormatEther renders wei as a decimal ETH string with trailing zeros trimmed.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(wei, weiPerEther, frac)

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := strings.TrimRight(leftPad(frac.String(), weiDecimals), "0")

	return whole.String() + "." + fracStr
}

func leftPad(s string, size int) string {
	if len(s) >= size {
		return s
	}
	return strings.Repeat("0", size-len(s)) + s
}
