package contract

import (
	"errors"

	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var ErrBadAddress = errors.New("invalid contract address")

// Bindings is the active binding pair for the two contracts. It is rebuilt,
// never mutated, when the session account or provider identity changes;
// in-flight calls against an old pair complete or fail on their own.
type Bindings struct {
	Nft    *CardNft
	Market *Market
}

func NewBindings(backend bind.ContractBackend, cfg config.EthConfig) (*Bindings, error) {
	if !common.IsHexAddress(cfg.NftAddress) || !common.IsHexAddress(cfg.MarketAddress) {
		return nil, ErrBadAddress
	}

	nft, err := NewCardNft(common.HexToAddress(cfg.NftAddress), backend)
	if err != nil {
		return nil, err
	}

	market, err := NewMarket(common.HexToAddress(cfg.MarketAddress), backend)
	if err != nil {
		return nil, err
	}

	return &Bindings{Nft: nft, Market: market}, nil
}
