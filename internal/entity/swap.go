package entity

import (
	"github.com/ethereum/go-ethereum/common"
)

// SwapOffer is a standing offer to trade one owned token for another
// specific token, keyed by the offered token id.
type SwapOffer struct {
	Maker          common.Address `json:"maker"`
	OfferedTokenId uint64         `json:"offeredTokenId"`
	WantedTokenId  uint64         `json:"wantedTokenId"`
	Active         bool           `json:"active"`
}
