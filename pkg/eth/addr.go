package eth

import (
	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the null account. A listing or pending listing whose seller
// equals this address does not exist on-chain.
var ZeroAddress = common.Address{}

// ShortAddr abbreviates an address for status lines ("0xa9AA...9965").
func ShortAddr(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}
