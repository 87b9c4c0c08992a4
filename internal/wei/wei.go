// Package wei converts between the native currency's display unit (ether)
// and its smallest unit (wei). 1 ether = 10^18 wei.
package wei

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerEther = new(big.Int).SetUint64(params.Ether)

// ParseEther converts a decimal ether amount into wei. The conversion goes
// through big.Rat instead of floating point, so amounts like "1.5" map to
// exactly 1500000000000000000 and large values keep full precision.
// Negative amounts, malformed input and sub-wei precision are rejected.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("amount is empty")
	}
	// big.Rat accepts "a/b" fractions, which are not valid form input.
	if strings.ContainsAny(s, "/ ") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	amount, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount %q must not be negative", s)
	}

	amount.Mul(amount, new(big.Rat).SetInt(weiPerEther))
	if !amount.IsInt() {
		return nil, fmt.Errorf("amount %q is more precise than 1 wei", s)
	}
	return new(big.Int).Set(amount.Num()), nil
}

// FormatEther renders a wei amount as a decimal ether string without
// trailing zeros, e.g. 1500000000000000000 -> "1.5".
func FormatEther(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Abs(amount)
	if amount.Sign() < 0 {
		sign = "-"
	}

	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))
	if frac.Sign() == 0 {
		return sign + whole.String()
	}
	decimals := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return sign + whole.String() + "." + decimals
}
