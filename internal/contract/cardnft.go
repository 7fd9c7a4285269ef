package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// CardData is the raw getCard tuple as the contract returns it. Field names
// follow the ABI; mapping to display entities happens in the view layer.
type CardData struct {
	Owner     common.Address
	Juego     string
	Expansion string
	Numero    *big.Int
	Rareza    string
	Estado    uint8
	UpdatedAt uint64
}

// CardNft binds the NFT contract: the enumerable token surface, the card
// extension, and AccessControl.
type CardNft struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewCardNft(address common.Address, backend bind.ContractBackend) (*CardNft, error) {
	parsed, err := abi.JSON(strings.NewReader(CardNftABI))
	if err != nil {
		return nil, err
	}

	return &CardNft{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (c *CardNft) Address() common.Address {
	return c.address
}

func (c *CardNft) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *CardNft) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *CardNft) TokenOfOwnerByIndex(opts *bind.CallOpts, owner common.Address, index *big.Int) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "tokenOfOwnerByIndex", owner, index)
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *CardNft) TotalSupply(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "totalSupply")
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *CardNft) TokenByIndex(opts *bind.CallOpts, index *big.Int) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "tokenByIndex", index)
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *CardNft) GetCard(opts *bind.CallOpts, tokenId *big.Int) (CardData, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "getCard", tokenId)
	if err != nil {
		return CardData{}, err
	}

	return CardData{
		Owner:     *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Juego:     *abi.ConvertType(out[1], new(string)).(*string),
		Expansion: *abi.ConvertType(out[2], new(string)).(*string),
		Numero:    *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		Rareza:    *abi.ConvertType(out[4], new(string)).(*string),
		Estado:    *abi.ConvertType(out[5], new(uint8)).(*uint8),
		UpdatedAt: *abi.ConvertType(out[6], new(uint64)).(*uint64),
	}, nil
}

func (c *CardNft) EstadoOf(opts *bind.CallOpts, tokenId *big.Int) (uint8, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "estadoOf", tokenId)
	if err != nil {
		return 0, err
	}

	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (c *CardNft) GetApproved(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "getApproved", tokenId)
	if err != nil {
		return common.Address{}, err
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *CardNft) IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *CardNft) HasRole(opts *bind.CallOpts, role [32]byte, account common.Address) (bool, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "hasRole", role, account)
	if err != nil {
		return false, err
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *CardNft) MintCard(opts *bind.TransactOpts, to common.Address, juego string, expansion string, numero *big.Int, rareza string, estadoInicial uint8) (*types.Transaction, error) {
	return c.contract.Transact(opts, "mintCard", to, juego, expansion, numero, rareza, estadoInicial)
}

func (c *CardNft) UpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error) {
	return c.contract.Transact(opts, "updateEstado", tokenId, nuevoEstado)
}

func (c *CardNft) AdminUpdateEstado(opts *bind.TransactOpts, tokenId *big.Int, nuevoEstado uint8) (*types.Transaction, error) {
	return c.contract.Transact(opts, "adminUpdateEstado", tokenId, nuevoEstado)
}

func (c *CardNft) Approve(opts *bind.TransactOpts, to common.Address, tokenId *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "approve", to, tokenId)
}

func (c *CardNft) SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error) {
	return c.contract.Transact(opts, "setApprovalForAll", operator, approved)
}

func (c *CardNft) GrantRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "grantRole", role, account)
}

func (c *CardNft) RevokeRole(opts *bind.TransactOpts, role [32]byte, account common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "revokeRole", role, account)
}
