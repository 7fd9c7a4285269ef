package orchestrator

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/cardnft/card-market-gateway/internal/contract"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sender     = common.HexToAddress("0xaa")
	marketAddr = common.HexToAddress("0xD3B97aB82C1Aff42934eA01D6f514B8520B181Ca")
)

type fakeSigner struct {
	err error
}

func (f *fakeSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &bind.TransactOpts{From: sender, Context: ctx}, nil
}

type fakeBackend struct {
	status uint64
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: f.status, TxHash: txHash}, nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func newTx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: nonce, Gas: 21000, GasPrice: big.NewInt(1)})
}

type fakeNft struct {
	sendErr error
	calls   []string
}

func (f *fakeNft) record(name string) (*types.Transaction, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.calls = append(f.calls, name)
	return newTx(uint64(len(f.calls))), nil
}

func (f *fakeNft) MintCard(opts *bind.TransactOpts, to common.Address, juego string, expansion string, numero *big.Int, rareza string, estadoInicial uint8) (*types.Transaction, error) {
	return f.record("mintCard")
}
func (f *fakeNft) UpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error) {
	return f.record("updateEstado")
}
func (f *fakeNft) AdminUpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error) {
	return f.record("adminUpdateEstado")
}
func (f *fakeNft) Approve(opts *bind.TransactOpts, to common.Address, tokenId *big.Int) (*types.Transaction, error) {
	return f.record("approve")
}
func (f *fakeNft) SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error) {
	return f.record("setApprovalForAll")
}
func (f *fakeNft) GrantRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error) {
	return f.record("grantRole")
}
func (f *fakeNft) RevokeRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error) {
	return f.record("revokeRole")
}

type fakeMarket struct {
	listings    map[uint64]contract.ListingData
	sendErr     error
	finalizeErr error
	calls       []string
	lastValue   *big.Int
}

func (f *fakeMarket) record(name string, opts *bind.TransactOpts) (*types.Transaction, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if opts != nil {
		f.lastValue = opts.Value
	}
	f.calls = append(f.calls, name)
	return newTx(uint64(len(f.calls)) + 100), nil
}

func (f *fakeMarket) List(opts *bind.TransactOpts, tokenId *big.Int, price *big.Int) (*types.Transaction, error) {
	return f.record("list", opts)
}
func (f *fakeMarket) Cancel(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	return f.record("cancel", opts)
}
func (f *fakeMarket) FinalizeListing(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return f.record("finalizeListing", opts)
}
func (f *fakeMarket) Buy(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	return f.record("buy", opts)
}
func (f *fakeMarket) OfferSwap(opts *bind.TransactOpts, offeredTokenId *big.Int, wantedTokenId *big.Int) (*types.Transaction, error) {
	return f.record("offerSwap", opts)
}
func (f *fakeMarket) CancelSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error) {
	return f.record("cancelSwap", opts)
}
func (f *fakeMarket) AcceptSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error) {
	return f.record("acceptSwap", opts)
}
func (f *fakeMarket) Listings(opts *bind.CallOpts, tokenId *big.Int) (contract.ListingData, error) {
	data := f.listings[tokenId.Uint64()]
	if data.Price == nil {
		data.Price = big.NewInt(0)
	}
	return data, nil
}
func (f *fakeMarket) Address() common.Address {
	return marketAddr
}

type statusRecorder struct {
	states []State
}

func (s *statusRecorder) fn() StatusFunc {
	return func(state State, message string) {
		s.states = append(s.states, state)
	}
}

func newOrchestrator(nft *fakeNft, market *fakeMarket, rec *statusRecorder) *Orchestrator {
	if market.listings == nil {
		market.listings = make(map[uint64]contract.ListingData)
	}
	return NewOrchestrator(&fakeSigner{}, nft, market, &fakeBackend{status: types.ReceiptStatusSuccessful}, rec.fn())
}

func TestList_WalksStateMachine(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{}
	o := newOrchestrator(&fakeNft{}, market, rec)

	res, err := o.List(context.Background(), 1, "0.01")
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, res.State)
	assert.NotEmpty(t, res.TxHash)
	assert.Equal(t, []State{StateSigning, StatePending, StateConfirmed}, rec.states)
	assert.Equal(t, []string{"list"}, market.calls)
}

func TestList_RejectsInvalidPrice(t *testing.T) {
	for _, price := range []string{"", "0", "-1", "abc"} {
		rec := &statusRecorder{}
		market := &fakeMarket{}
		o := newOrchestrator(&fakeNft{}, market, rec)

		res, err := o.List(context.Background(), 1, price)
		assert.ErrorIs(t, err, ErrInvalidInput, price)
		assert.Equal(t, StateFailed, res.State, price)
		assert.Empty(t, market.calls, "no transaction submitted for %q", price)
	}
}

func TestExecute_UserRejected(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{}
	o := NewOrchestrator(&fakeSigner{err: wallet.ErrUserRejected}, &fakeNft{}, market, &fakeBackend{}, rec.fn())
	market.listings = map[uint64]contract.ListingData{}

	res, err := o.Cancel(context.Background(), 1)
	assert.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, "user rejected", res.Reason)
	assert.Empty(t, market.calls)
}

func TestExecute_RevertedReceipt(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{listings: map[uint64]contract.ListingData{}}
	o := NewOrchestrator(&fakeSigner{}, &fakeNft{}, market, &fakeBackend{status: types.ReceiptStatusFailed}, rec.fn())

	res, err := o.Cancel(context.Background(), 1)
	assert.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, "transaction reverted", res.Reason)
}

func TestCancel_NeverListedSurfacesFailure(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{
		listings: map[uint64]contract.ListingData{},
		sendErr:  errors.New("execution reverted: not listed"),
	}
	o := newOrchestrator(&fakeNft{}, market, rec)

	res, err := o.Cancel(context.Background(), 99)
	assert.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Contains(t, res.Reason, "not listed")
	assert.Empty(t, market.calls, "no confirmed mutation recorded")
}

func TestBuy_SendsListedPriceAsValue(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{
		listings: map[uint64]contract.ListingData{
			7: {Seller: common.HexToAddress("0xbb"), Price: big.NewInt(10000000000000000)},
		},
	}
	o := newOrchestrator(&fakeNft{}, market, rec)

	res, err := o.Buy(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, res.State)
	assert.Equal(t, []string{"buy"}, market.calls)
	assert.Equal(t, "10000000000000000", market.lastValue.String())
}

func TestBuy_NotListed(t *testing.T) {
	rec := &statusRecorder{}
	market := &fakeMarket{listings: map[uint64]contract.ListingData{}}
	o := newOrchestrator(&fakeNft{}, market, rec)

	res, err := o.Buy(context.Background(), 7)
	assert.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, market.calls)
}

func TestFinalizeReview_BothStepsConfirmed(t *testing.T) {
	rec := &statusRecorder{}
	nft := &fakeNft{}
	market := &fakeMarket{}
	o := newOrchestrator(nft, market, rec)

	outcome, err := o.FinalizeReview(context.Background(), 3, entity.ConditionGood)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, outcome.Grade.State)
	assert.Equal(t, StateConfirmed, outcome.Publish.State)
	assert.Equal(t, []string{"updateEstado"}, nft.calls)
	assert.Equal(t, []string{"finalizeListing"}, market.calls)
}

func TestFinalizeReview_PublishFailureKeepsGrade(t *testing.T) {
	rec := &statusRecorder{}
	nft := &fakeNft{}
	market := &fakeMarket{finalizeErr: errors.New("execution reverted: nothing pending")}
	o := newOrchestrator(nft, market, rec)

	outcome, err := o.FinalizeReview(context.Background(), 3, entity.ConditionGood)
	assert.Error(t, err)

	// Step 1 stands, no compensating action is attempted.
	assert.Equal(t, StateConfirmed, outcome.Grade.State)
	assert.Equal(t, StateFailed, outcome.Publish.State)
	assert.Equal(t, []string{"updateEstado"}, nft.calls)
	assert.Empty(t, market.calls)
}

func TestRebind_ConcurrentWithActions(t *testing.T) {
	listings := map[uint64]contract.ListingData{
		7: {Seller: common.HexToAddress("0xbb"), Price: big.NewInt(100)},
	}
	oldNft, oldMarket := &fakeNft{}, &fakeMarket{listings: listings}
	newNft, newMarket := &fakeNft{}, &fakeMarket{listings: listings}

	rec := &statusRecorder{}
	o := newOrchestrator(oldNft, oldMarket, rec)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			o.Rebind(newNft, newMarket)
			o.Rebind(oldNft, oldMarket)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			res, err := o.Buy(context.Background(), 7)
			require.NoError(t, err)
			require.Equal(t, StateConfirmed, res.State)
		}
	}()
	wg.Wait()

	assert.Equal(t, 200, len(oldMarket.calls)+len(newMarket.calls))
}

func TestMint_RejectsZeroAddress(t *testing.T) {
	rec := &statusRecorder{}
	nft := &fakeNft{}
	o := newOrchestrator(nft, &fakeMarket{}, rec)

	_, err := o.Mint(context.Background(), common.Address{}, "One Piece TCG", "OP09", 1, "SR")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, nft.calls)
}

func TestUpdateCondition_RejectsUnknownValue(t *testing.T) {
	rec := &statusRecorder{}
	nft := &fakeNft{}
	o := newOrchestrator(nft, &fakeMarket{}, rec)

	_, err := o.UpdateCondition(context.Background(), 1, entity.Condition(99))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, nft.calls)
}
