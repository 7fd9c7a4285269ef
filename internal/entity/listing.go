package entity

import (
	"math/big"

	"github.com/cardnft/card-market-gateway/pkg/eth"
	"github.com/ethereum/go-ethereum/common"
)

// Listing is an active sell order for a token at a fixed native-currency
// price. The contract returns the zero value for tokens that were never
// listed, so the zero-address seller check is the listed test.
type Listing struct {
	TokenId  uint64         `json:"tokenId"`
	Seller   common.Address `json:"seller"`
	PriceWei *big.Int       `json:"priceWei"`
}

func (l Listing) IsListed() bool {
	return l.Seller != eth.ZeroAddress
}

func (l Listing) PriceEth() string {
	return eth.FormatEther(l.PriceWei)
}

// PendingListing is a sell request awaiting inspector review. A token may be
// pending, listed, or neither; mutual exclusion is owned by the contract.
type PendingListing struct {
	TokenId     uint64         `json:"tokenId"`
	Seller      common.Address `json:"seller"`
	PriceWei    *big.Int       `json:"priceWei"`
	RequestedAt uint64         `json:"requestedAt"`
}

func (p PendingListing) IsPending() bool {
	return p.Seller != eth.ZeroAddress
}

func (p PendingListing) PriceEth() string {
	return eth.FormatEther(p.PriceWei)
}

// Approval is the per-token / per-owner transfer permission snapshot.
type Approval struct {
	Approved       common.Address `json:"approved"`
	ApprovedForAll bool           `json:"approvedForAll"`
}

// AllowsOperator reports whether the operator may transfer the token, either
// through a token-level approve or an operator-wide setApprovalForAll.
func (a Approval) AllowsOperator(operator common.Address) bool {
	return a.ApprovedForAll || a.Approved == operator
}
