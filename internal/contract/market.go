package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ListingData is the raw listings tuple.
type ListingData struct {
	Seller common.Address
	Price  *big.Int
}

// PendingData is the raw pendingListings tuple.
type PendingData struct {
	Seller      common.Address
	Price       *big.Int
	RequestedAt uint64
}

// SwapData is the raw swapOffers tuple.
type SwapData struct {
	Maker          common.Address
	OfferedTokenId *big.Int
	WantedTokenId  *big.Int
	Active         bool
}

// Market binds the native-currency marketplace contract.
type Market struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewMarket(address common.Address, backend bind.ContractBackend) (*Market, error) {
	parsed, err := abi.JSON(strings.NewReader(MarketABI))
	if err != nil {
		return nil, err
	}

	return &Market{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (m *Market) Address() common.Address {
	return m.address
}

func (m *Market) Listings(opts *bind.CallOpts, tokenId *big.Int) (ListingData, error) {
	var out []interface{}
	err := m.contract.Call(opts, &out, "listings", tokenId)
	if err != nil {
		return ListingData{}, err
	}

	return ListingData{
		Seller: *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Price:  *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
	}, nil
}

func (m *Market) PendingListings(opts *bind.CallOpts, tokenId *big.Int) (PendingData, error) {
	var out []interface{}
	err := m.contract.Call(opts, &out, "pendingListings", tokenId)
	if err != nil {
		return PendingData{}, err
	}

	return PendingData{
		Seller:      *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Price:       *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		RequestedAt: *abi.ConvertType(out[2], new(uint64)).(*uint64),
	}, nil
}

func (m *Market) SwapOffers(opts *bind.CallOpts, offeredTokenId *big.Int) (SwapData, error) {
	var out []interface{}
	err := m.contract.Call(opts, &out, "swapOffers", offeredTokenId)
	if err != nil {
		return SwapData{}, err
	}

	return SwapData{
		Maker:          *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		OfferedTokenId: *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		WantedTokenId:  *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		Active:         *abi.ConvertType(out[3], new(bool)).(*bool),
	}, nil
}

func (m *Market) List(opts *bind.TransactOpts, tokenId *big.Int, price *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "list", tokenId, price)
}

func (m *Market) Cancel(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "cancel", tokenId)
}

func (m *Market) FinalizeListing(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "finalizeListing", tokenId)
}

// Buy sends the listed price as msg.value; the caller sets opts.Value.
func (m *Market) Buy(opts *bind.TransactOpts, tokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "buy", tokenId)
}

func (m *Market) OfferSwap(opts *bind.TransactOpts, offeredTokenId *big.Int, wantedTokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "offerSwap", offeredTokenId, wantedTokenId)
}

func (m *Market) CancelSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "cancelSwap", offeredTokenId)
}

func (m *Market) AcceptSwap(opts *bind.TransactOpts, offeredTokenId *big.Int) (*types.Transaction, error) {
	return m.contract.Transact(opts, "acceptSwap", offeredTokenId)
}
