package orchestrator

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/cardnft/card-market-gateway/internal/contract"
	"github.com/cardnft/card-market-gateway/internal/dev"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/event"
	"github.com/cardnft/card-market-gateway/pkg/eth"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// NftActions is the write surface of the NFT contract.
type NftActions interface {
	MintCard(opts *bind.TransactOpts, to common.Address, juego string, expansion string, numero *big.Int, rareza string, estadoInicial uint8) (*types.Transaction, error)
	UpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error)
	AdminUpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error)
	Approve(opts *bind.TransactOpts, to common.Address, tokenId *big.Int) (*types.Transaction, error)
	SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error)
	GrantRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error)
	RevokeRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error)
}

// MarketActions is the write surface of the market contract, plus the
// listing read buy needs to price its value transfer.
type MarketActions interface {
	List(opts *bind.TransactOpts, tokenId *big.Int, price *big.Int) (*types.Transaction, error)
	Cancel(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error)
	FinalizeListing(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error)
	Buy(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error)
	OfferSwap(opts *bind.TransactOpts, offeredTokenId *big.Int, wantedTokenId *big.Int) (*types.Transaction, error)
	CancelSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error)
	AcceptSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error)
	Listings(opts *bind.CallOpts, tokenId *big.Int) (contract.ListingData, error)
	Address() common.Address
}

// Signer yields transact options bound to the session account.
type Signer interface {
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// FinalizeOutcome reports the two steps of the inspector finalize flow
// distinctly: the steps are independent transactions with no compensation,
// so grade can succeed while publish fails.
type FinalizeOutcome struct {
	Grade   Result `json:"grade"`
	Publish Result `json:"publish"`
}

// Orchestrator runs every write action through the shared signing /
// confirmation state machine and publishes refresh events on confirmation.
// Actions are not serialized against each other: two in-flight actions on
// the same token interleave, and the contract arbitrates.
type Orchestrator struct {
	signer  Signer
	backend bind.DeployBackend
	status  StatusFunc

	mu     sync.Mutex
	nft    NftActions
	market MarketActions
}

func NewOrchestrator(signer Signer, nft NftActions, market MarketActions, backend bind.DeployBackend, status StatusFunc) *Orchestrator {
	if status == nil {
		status = func(State, string) {}
	}

	return &Orchestrator{signer: signer, nft: nft, market: market, backend: backend, status: status}
}

// Rebind swaps the contract bindings after a session change. An action
// already past its own contracts() snapshot completes against the old pair.
func (o *Orchestrator) Rebind(nft NftActions, market MarketActions) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nft = nft
	o.market = market
}

func (o *Orchestrator) contracts() (NftActions, MarketActions) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nft, o.market
}

func (o *Orchestrator) Mint(ctx context.Context, to common.Address, game, expansion string, number uint64, rarity string) (Result, error) {
	if to == eth.ZeroAddress {
		return o.fail("mint", ErrInvalidInput)
	}

	nft, _ := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("mint %s-%03d", expansion, number), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.MintCard(opts, to, game, expansion, new(big.Int).SetUint64(number), rarity, uint8(entity.ConditionUnknown))
	})
	if err == nil {
		event.EmitEvent(event.CardsChangedEvent, to)
	}

	return res, err
}

func (o *Orchestrator) Approve(ctx context.Context, tokenId uint64) (Result, error) {
	nft, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("approve token %d", tokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.Approve(opts, market.Address(), new(big.Int).SetUint64(tokenId))
	})
	if err == nil {
		event.EmitEvent(event.CardsChangedEvent, tokenId)
	}

	return res, err
}

func (o *Orchestrator) ApproveForAll(ctx context.Context) (Result, error) {
	nft, market := o.contracts()
	res, err := o.execute(ctx, "approve market for all tokens", func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.SetApprovalForAll(opts, market.Address(), true)
	})
	if err == nil {
		event.EmitEvent(event.CardsChangedEvent, nil)
	}

	return res, err
}

// List submits a sell request at the given decimal ETH price; the token goes
// to the inspector queue, not straight to the market.
func (o *Orchestrator) List(ctx context.Context, tokenId uint64, priceEth string) (Result, error) {
	wei, err := eth.ParseEther(priceEth)
	if err != nil || wei.Sign() <= 0 {
		return o.fail("list", ErrInvalidInput)
	}

	_, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("list token %d at %s ETH", tokenId, priceEth), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.List(opts, new(big.Int).SetUint64(tokenId), wei)
	})
	if err == nil {
		event.EmitEvent(event.ListingChangedEvent, tokenId)
	}

	return res, err
}

// Cancel removes a listing or a pending sell request. Cancelling a token
// that was never listed is delegated to the contract's revert.
func (o *Orchestrator) Cancel(ctx context.Context, tokenId uint64) (Result, error) {
	_, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("cancel listing of token %d", tokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.Cancel(opts, new(big.Int).SetUint64(tokenId))
	})
	if err == nil {
		event.EmitEvent(event.ListingChangedEvent, tokenId)
	}

	return res, err
}

// Buy re-reads the listing and sends its price as the transaction value.
func (o *Orchestrator) Buy(ctx context.Context, tokenId uint64) (Result, error) {
	id := new(big.Int).SetUint64(tokenId)
	_, market := o.contracts()

	listing, err := market.Listings(&bind.CallOpts{Context: ctx}, id)
	if err != nil {
		return o.fail("buy", err)
	}
	if listing.Seller == eth.ZeroAddress {
		return o.fail("buy", fmt.Errorf("token %d is not listed", tokenId))
	}

	res, err := o.execute(ctx, fmt.Sprintf("buy token %d for %s ETH", tokenId, eth.FormatEther(listing.Price)), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		opts.Value = listing.Price
		return market.Buy(opts, id)
	})
	if err == nil {
		event.EmitEvent(event.ListingChangedEvent, tokenId)
		event.EmitEvent(event.CardsChangedEvent, tokenId)
	}

	return res, err
}

func (o *Orchestrator) GrantRole(ctx context.Context, role [32]byte, account common.Address) (Result, error) {
	nft, _ := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("grant role to %s", eth.ShortAddr(account)), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.GrantRole(opts, role, account)
	})
	if err == nil {
		event.EmitEvent(event.RolesChangedEvent, account)
	}

	return res, err
}

func (o *Orchestrator) RevokeRole(ctx context.Context, role [32]byte, account common.Address) (Result, error) {
	nft, _ := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("revoke role from %s", eth.ShortAddr(account)), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.RevokeRole(opts, role, account)
	})
	if err == nil {
		event.EmitEvent(event.RolesChangedEvent, account)
	}

	return res, err
}

func (o *Orchestrator) UpdateCondition(ctx context.Context, tokenId uint64, condition entity.Condition) (Result, error) {
	if !condition.Valid() {
		return o.fail("grade", ErrInvalidInput)
	}

	nft, _ := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("grade token %d as %s", tokenId, condition), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.UpdateEstado(opts, new(big.Int).SetUint64(tokenId), uint8(condition))
	})
	if err == nil {
		event.EmitEvent(event.CardsChangedEvent, tokenId)
	}

	return res, err
}

func (o *Orchestrator) AdminUpdateCondition(ctx context.Context, tokenId uint64, condition entity.Condition) (Result, error) {
	if !condition.Valid() {
		return o.fail("admin grade", ErrInvalidInput)
	}

	nft, _ := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("admin grade token %d as %s", tokenId, condition), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.AdminUpdateEstado(opts, new(big.Int).SetUint64(tokenId), uint8(condition))
	})
	if err == nil {
		event.EmitEvent(event.CardsChangedEvent, tokenId)
	}

	return res, err
}

// FinalizeReview is the inspector's two-step flow: grade the card, then
// publish the pending listing. The steps are separate transactions; when the
// publish fails after a confirmed grade, the card keeps its new condition
// and the listing stays pending. Both outcomes are reported.
func (o *Orchestrator) FinalizeReview(ctx context.Context, tokenId uint64, condition entity.Condition) (FinalizeOutcome, error) {
	outcome := FinalizeOutcome{
		Grade:   Result{State: StateIdle},
		Publish: Result{State: StateIdle},
	}

	if !condition.Valid() {
		_, err := o.fail("finalize", ErrInvalidInput)
		outcome.Grade = Result{State: StateFailed, Reason: shortReason(ErrInvalidInput)}
		return outcome, err
	}

	id := new(big.Int).SetUint64(tokenId)
	nft, market := o.contracts()

	grade, err := o.execute(ctx, fmt.Sprintf("1/2 grade token %d", tokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return nft.UpdateEstado(opts, id, uint8(condition))
	})
	outcome.Grade = grade
	if err != nil {
		return outcome, err
	}
	event.EmitEvent(event.CardsChangedEvent, tokenId)

	publish, err := o.execute(ctx, fmt.Sprintf("2/2 publish token %d", tokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.FinalizeListing(opts, id)
	})
	outcome.Publish = publish
	if err != nil {
		return outcome, err
	}
	event.EmitEvent(event.ListingChangedEvent, tokenId)

	return outcome, nil
}

func (o *Orchestrator) OfferSwap(ctx context.Context, offeredTokenId, wantedTokenId uint64) (Result, error) {
	_, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("offer swap %d for %d", offeredTokenId, wantedTokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.OfferSwap(opts, new(big.Int).SetUint64(offeredTokenId), new(big.Int).SetUint64(wantedTokenId))
	})
	if err == nil {
		event.EmitEvent(event.SwapChangedEvent, offeredTokenId)
	}

	return res, err
}

func (o *Orchestrator) AcceptSwap(ctx context.Context, offeredTokenId uint64) (Result, error) {
	_, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("accept swap of token %d", offeredTokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.AcceptSwap(opts, new(big.Int).SetUint64(offeredTokenId))
	})
	if err == nil {
		event.EmitEvent(event.SwapChangedEvent, offeredTokenId)
		event.EmitEvent(event.CardsChangedEvent, offeredTokenId)
	}

	return res, err
}

func (o *Orchestrator) CancelSwap(ctx context.Context, offeredTokenId uint64) (Result, error) {
	_, market := o.contracts()
	res, err := o.execute(ctx, fmt.Sprintf("cancel swap of token %d", offeredTokenId), func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return market.CancelSwap(opts, new(big.Int).SetUint64(offeredTokenId))
	})
	if err == nil {
		event.EmitEvent(event.SwapChangedEvent, offeredTokenId)
	}

	return res, err
}

// execute walks one transaction through signing, submission and the
// confirmation wait. The wait has no timeout of its own; the caller's
// context is the only way out.
func (o *Orchestrator) execute(ctx context.Context, label string, send func(*bind.TransactOpts) (*types.Transaction, error)) (Result, error) {
	o.status(StateSigning, "signing: "+label)

	opts, err := o.signer.TransactOpts(ctx)
	if err != nil {
		return o.fail(label, err)
	}

	tx, err := send(opts)
	if err != nil {
		return o.fail(label, err)
	}

	o.status(StatePending, fmt.Sprintf("%s submitted (%s), awaiting confirmation", label, tx.Hash().Hex()))

	receipt, err := bind.WaitMined(ctx, o.backend, tx)
	if err != nil {
		return o.fail(label, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return o.fail(label, fmt.Errorf("transaction reverted"))
	}

	o.status(StateConfirmed, label+" confirmed")
	zap.L().With(zap.String("tx", tx.Hash().Hex())).Info("Orchestrator: " + label + " confirmed")

	return Result{State: StateConfirmed, TxHash: tx.Hash().Hex()}, nil
}

func (o *Orchestrator) fail(label string, err error) (Result, error) {
	failure := dev.NewError("orchestrator", label, err, nil)
	reason := shortReason(err)
	o.status(StateFailed, label+" failed: "+reason)
	zap.L().With(zap.Error(err), zap.String("ref", failure.Slug())).Warn("Orchestrator: " + label + " failed")
	dev.Dump(failure)

	return Result{State: StateFailed, Reason: reason}, err
}
