package entity

import (
	"github.com/ethereum/go-ethereum/common"
)

// CardRow joins the per-token reads (card, listing, pending listing,
// approval) into one display row. The reads are not atomic: a row can mix
// data from different block states, which is accepted display-layer
// tolerance.
type CardRow struct {
	Card     Card           `json:"card"`
	Listing  Listing        `json:"listing"`
	Pending  PendingListing `json:"pending"`
	Approval Approval       `json:"approval"`
}

func (r CardRow) IsListed() bool {
	return r.Listing.IsListed()
}

func (r CardRow) IsPending() bool {
	return r.Pending.IsPending()
}

func (r CardRow) ApprovedFor(market common.Address) bool {
	return r.Approval.AllowsOperator(market)
}

// ReviewItem is one entry of the inspector queue: a pending listing enriched
// with its card data.
type ReviewItem struct {
	Card    Card           `json:"card"`
	Pending PendingListing `json:"pending"`
}
