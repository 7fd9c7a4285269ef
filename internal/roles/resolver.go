package roles

import (
	"context"
	"sync"

	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// AccessReader is the AccessControl surface of the NFT contract.
type AccessReader interface {
	HasRole(opts *bind.CallOpts, role [32]byte, account common.Address) (bool, error)
}

type Resolver interface {
	Resolve(ctx context.Context, account common.Address) (entity.CapabilitySet, error)
	Rebind(access AccessReader)
}

type resolver struct {
	mu          sync.Mutex
	access      AccessReader
	last        entity.CapabilitySet
	lastAccount common.Address
}

func NewResolver(access AccessReader) Resolver {
	return &resolver{access: access}
}

// Rebind swaps the underlying binding after a session change. The cached
// flags are deliberately kept: stale-on-error policy needs them until the
// next successful resolve.
func (r *resolver) Rebind(access AccessReader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.access = access
}

// Resolve evaluates the three role flags through three independent reads.
// All three are always evaluated, no short-circuiting. If any read fails the
// previously resolved flags are returned unchanged alongside the error.
func (r *resolver) Resolve(ctx context.Context, account common.Address) (entity.CapabilitySet, error) {
	r.mu.Lock()
	access := r.access
	r.mu.Unlock()

	opts := &bind.CallOpts{Context: ctx}

	admin, errAdmin := access.HasRole(opts, DefaultAdminRole, account)
	minter, errMinter := access.HasRole(opts, MinterRole, account)
	inspector, errInspector := access.HasRole(opts, InspectorRole, account)

	for _, err := range []error{errAdmin, errMinter, errInspector} {
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("account", account.Hex())).Error("Roles: resolve failed")

			// Stale flags are only served for the account they were
			// resolved for; another account degrades to no capabilities.
			r.mu.Lock()
			stale := r.last
			if r.lastAccount != account {
				stale = entity.CapabilitySet{}
			}
			r.mu.Unlock()

			return stale, err
		}
	}

	caps := entity.CapabilitySet{IsAdmin: admin, IsMinter: minter, IsInspector: inspector}

	r.mu.Lock()
	r.last = caps
	r.lastAccount = account
	r.mu.Unlock()

	return caps, nil
}
