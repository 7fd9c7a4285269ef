package view

import (
	"context"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/cardnft/card-market-gateway/internal/contract"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// NftReader is the read surface of the NFT contract the view models consume.
type NftReader interface {
	BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error)
	TokenOfOwnerByIndex(opts *bind.CallOpts, owner common.Address, index *big.Int) (*big.Int, error)
	TotalSupply(opts *bind.CallOpts) (*big.Int, error)
	TokenByIndex(opts *bind.CallOpts, index *big.Int) (*big.Int, error)
	GetCard(opts *bind.CallOpts, tokenId *big.Int) (contract.CardData, error)
	GetApproved(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error)
}

// MarketReader is the read surface of the market contract.
type MarketReader interface {
	Listings(opts *bind.CallOpts, tokenId *big.Int) (contract.ListingData, error)
	PendingListings(opts *bind.CallOpts, tokenId *big.Int) (contract.PendingData, error)
	SwapOffers(opts *bind.CallOpts, offeredTokenId *big.Int) (contract.SwapData, error)
}

// SearchQuery filters the collection scan. Expansion matches exactly but
// case-insensitively; Number is optional and tolerant of leading zeros;
// OnlyListed keeps for-sale rows only.
type SearchQuery struct {
	Expansion  string
	Number     string
	OnlyListed bool
}

type ViewModel interface {
	OwnedCards(ctx context.Context, owner common.Address) ([]entity.CardRow, error)
	Search(ctx context.Context, q SearchQuery) ([]entity.CardRow, error)
	PendingReview(ctx context.Context) ([]entity.ReviewItem, error)
	CardOf(ctx context.Context, tokenId uint64) (entity.Card, error)
	ListingOf(ctx context.Context, tokenId uint64) (entity.Listing, error)
	PendingOf(ctx context.Context, tokenId uint64) (entity.PendingListing, error)
	ApprovalOf(ctx context.Context, owner common.Address, tokenId uint64) (entity.Approval, error)
	SwapOfferOf(ctx context.Context, offeredTokenId uint64) (entity.SwapOffer, error)
	Rebind(nft NftReader, market MarketReader)
}

type viewModel struct {
	mu         sync.Mutex
	nft        NftReader
	market     MarketReader
	marketAddr common.Address
}

func NewViewModel(nft NftReader, market MarketReader, marketAddr common.Address) ViewModel {
	return &viewModel{nft: nft, market: market, marketAddr: marketAddr}
}

// Rebind swaps the contract bindings after a session change. In-flight reads
// keep the pair they snapshotted at entry and complete or fail on their own.
func (v *viewModel) Rebind(nft NftReader, market MarketReader) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nft = nft
	v.market = market
}

// readers snapshots the active binding pair. Each operation takes one
// snapshot up front so a concurrent Rebind never splits its reads.
func (v *viewModel) readers() (NftReader, MarketReader) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nft, v.market
}

// OwnedCards enumerates the owner's tokens via balance/index reads, then
// joins card, listing, pending listing and approval per token, in that fixed
// order. No atomicity across the reads: the rows are a display snapshot.
func (v *viewModel) OwnedCards(ctx context.Context, owner common.Address) ([]entity.CardRow, error) {
	opts := &bind.CallOpts{Context: ctx}
	nft, market := v.readers()

	balance, err := nft.BalanceOf(opts, owner)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("owner", owner.Hex())).Error("View: balanceOf failed")
		return nil, err
	}

	count := balance.Uint64()
	ids := make([]*big.Int, 0, count)
	for i := uint64(0); i < count; i++ {
		tokenId, err := nft.TokenOfOwnerByIndex(opts, owner, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, err
		}
		ids = append(ids, tokenId)
	}

	rows := make([]entity.CardRow, 0, len(ids))
	for _, tokenId := range ids {
		row, err := v.buildRow(opts, nft, market, owner, tokenId)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Search runs the full collection scan: totalSupply then tokenByIndex for
// every position. No pagination, no index, no early exit beyond the optional
// number filter.
func (v *viewModel) Search(ctx context.Context, q SearchQuery) ([]entity.CardRow, error) {
	opts := &bind.CallOpts{Context: ctx}
	nft, market := v.readers()

	supply, err := nft.TotalSupply(opts)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("View: totalSupply failed")
		return nil, err
	}

	var number uint64
	filterNumber := false
	if q.Number != "" {
		number, err = strconv.ParseUint(q.Number, 10, 64)
		if err != nil {
			return nil, err
		}
		filterNumber = true
	}

	total := supply.Uint64()
	rows := make([]entity.CardRow, 0)
	for i := uint64(0); i < total; i++ {
		tokenId, err := nft.TokenByIndex(opts, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, err
		}

		data, err := nft.GetCard(opts, tokenId)
		if err != nil {
			return nil, err
		}

		if !strings.EqualFold(data.Expansion, q.Expansion) {
			continue
		}
		if filterNumber && data.Numero.Uint64() != number {
			continue
		}

		row, err := v.buildRow(opts, nft, market, data.Owner, tokenId)
		if err != nil {
			return nil, err
		}

		if q.OnlyListed && !row.IsListed() {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// PendingReview is the inspector queue: every token of the collection whose
// pending listing has a non-zero seller. Tokens whose pending read fails are
// skipped, matching best-effort display semantics.
func (v *viewModel) PendingReview(ctx context.Context) ([]entity.ReviewItem, error) {
	opts := &bind.CallOpts{Context: ctx}
	nft, market := v.readers()

	supply, err := nft.TotalSupply(opts)
	if err != nil {
		return nil, err
	}

	total := supply.Uint64()
	items := make([]entity.ReviewItem, 0)
	for i := uint64(0); i < total; i++ {
		tokenId, err := nft.TokenByIndex(opts, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, err
		}

		pendingData, err := market.PendingListings(opts, tokenId)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("tokenId", tokenId.String())).Debug("View: pending read skipped")
			continue
		}

		pending := toPending(tokenId, pendingData)
		if !pending.IsPending() {
			continue
		}

		data, err := nft.GetCard(opts, tokenId)
		if err != nil {
			return nil, err
		}

		items = append(items, entity.ReviewItem{
			Card:    toCard(tokenId, data),
			Pending: pending,
		})
	}

	return items, nil
}

func (v *viewModel) CardOf(ctx context.Context, tokenId uint64) (entity.Card, error) {
	opts := &bind.CallOpts{Context: ctx}
	nft, _ := v.readers()
	id := new(big.Int).SetUint64(tokenId)

	data, err := nft.GetCard(opts, id)
	if err != nil {
		return entity.Card{}, err
	}

	return toCard(id, data), nil
}

func (v *viewModel) ListingOf(ctx context.Context, tokenId uint64) (entity.Listing, error) {
	opts := &bind.CallOpts{Context: ctx}
	_, market := v.readers()
	id := new(big.Int).SetUint64(tokenId)

	data, err := market.Listings(opts, id)
	if err != nil {
		return entity.Listing{}, err
	}

	return toListing(id, data), nil
}

func (v *viewModel) PendingOf(ctx context.Context, tokenId uint64) (entity.PendingListing, error) {
	opts := &bind.CallOpts{Context: ctx}
	_, market := v.readers()
	id := new(big.Int).SetUint64(tokenId)

	data, err := market.PendingListings(opts, id)
	if err != nil {
		return entity.PendingListing{}, err
	}

	return toPending(id, data), nil
}

func (v *viewModel) ApprovalOf(ctx context.Context, owner common.Address, tokenId uint64) (entity.Approval, error) {
	opts := &bind.CallOpts{Context: ctx}
	nft, _ := v.readers()
	id := new(big.Int).SetUint64(tokenId)

	approved, err := nft.GetApproved(opts, id)
	if err != nil {
		return entity.Approval{}, err
	}

	forAll, err := nft.IsApprovedForAll(opts, owner, v.marketAddr)
	if err != nil {
		return entity.Approval{}, err
	}

	return entity.Approval{Approved: approved, ApprovedForAll: forAll}, nil
}

func (v *viewModel) SwapOfferOf(ctx context.Context, offeredTokenId uint64) (entity.SwapOffer, error) {
	opts := &bind.CallOpts{Context: ctx}
	_, market := v.readers()

	data, err := market.SwapOffers(opts, new(big.Int).SetUint64(offeredTokenId))
	if err != nil {
		return entity.SwapOffer{}, err
	}

	return entity.SwapOffer{
		Maker:          data.Maker,
		OfferedTokenId: data.OfferedTokenId.Uint64(),
		WantedTokenId:  data.WantedTokenId.Uint64(),
		Active:         data.Active,
	}, nil
}

// buildRow joins the per-token reads in the fixed card, listing, pending,
// approval order. Listing and pending read failures degrade to the zero
// value; card and approval failures abort the row.
func (v *viewModel) buildRow(opts *bind.CallOpts, nft NftReader, market MarketReader, owner common.Address, tokenId *big.Int) (entity.CardRow, error) {
	data, err := nft.GetCard(opts, tokenId)
	if err != nil {
		return entity.CardRow{}, err
	}

	var listing entity.Listing
	if listingData, err := market.Listings(opts, tokenId); err == nil {
		listing = toListing(tokenId, listingData)
	}

	var pending entity.PendingListing
	if pendingData, err := market.PendingListings(opts, tokenId); err == nil {
		pending = toPending(tokenId, pendingData)
	}

	approved, err := nft.GetApproved(opts, tokenId)
	if err != nil {
		return entity.CardRow{}, err
	}

	forAll, err := nft.IsApprovedForAll(opts, owner, v.marketAddr)
	if err != nil {
		return entity.CardRow{}, err
	}

	return entity.CardRow{
		Card:     toCard(tokenId, data),
		Listing:  listing,
		Pending:  pending,
		Approval: entity.Approval{Approved: approved, ApprovedForAll: forAll},
	}, nil
}

func toCard(tokenId *big.Int, data contract.CardData) entity.Card {
	return entity.Card{
		TokenId:   tokenId.Uint64(),
		Owner:     data.Owner,
		Game:      data.Juego,
		Expansion: data.Expansion,
		Number:    data.Numero.Uint64(),
		Rarity:    data.Rareza,
		Condition: entity.Condition(data.Estado),
		UpdatedAt: data.UpdatedAt,
	}
}

func toListing(tokenId *big.Int, data contract.ListingData) entity.Listing {
	return entity.Listing{TokenId: tokenId.Uint64(), Seller: data.Seller, PriceWei: data.Price}
}

func toPending(tokenId *big.Int, data contract.PendingData) entity.PendingListing {
	return entity.PendingListing{
		TokenId:     tokenId.Uint64(),
		Seller:      data.Seller,
		PriceWei:    data.Price,
		RequestedAt: data.RequestedAt,
	}
}
