package router_test

import (
	"testing"

	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/router"
	"github.com/stretchr/testify/assert"
)

func TestResolve_NoAccountAlwaysConnect(t *testing.T) {
	r := router.NewRouter()
	r.Select(router.TabAdmin)

	view := r.Resolve(false, entity.CapabilitySet{IsAdmin: true})
	assert.Equal(t, router.ViewConnect, view)
}

func TestResolve_DefaultIsUserView(t *testing.T) {
	r := router.NewRouter()

	assert.Equal(t, router.TabUser, r.Active())
	assert.Equal(t, router.ViewUser, r.Resolve(true, entity.CapabilitySet{}))
}

func TestResolve_AdminTabNeedsAdminCapability(t *testing.T) {
	r := router.NewRouter()
	r.Select(router.TabAdmin)

	assert.Equal(t, router.ViewUser, r.Resolve(true, entity.CapabilitySet{}))
	assert.Equal(t, router.ViewAdmin, r.Resolve(true, entity.CapabilitySet{IsAdmin: true}))
}

func TestResolve_MarketAndSwapTabs(t *testing.T) {
	r := router.NewRouter()

	r.Select(router.TabMarket)
	assert.Equal(t, router.ViewMarket, r.Resolve(true, entity.CapabilitySet{}))

	r.Select(router.TabSwap)
	assert.Equal(t, router.ViewSwap, r.Resolve(true, entity.CapabilitySet{}))
}

func TestResolve_InspectorTabIsNotGated(t *testing.T) {
	r := router.NewRouter()
	r.Select(router.TabInspector)

	assert.Equal(t, router.ViewInspector, r.Resolve(true, entity.CapabilitySet{}))
}

func TestSelect_UnknownTabIgnored(t *testing.T) {
	r := router.NewRouter()
	r.Select(router.TabMarket)
	r.Select(router.Tab("settings"))

	assert.Equal(t, router.TabMarket, r.Active())
}

func TestReset_ReturnsToDefault(t *testing.T) {
	r := router.NewRouter()
	r.Select(router.TabAdmin)
	r.Reset()

	assert.Equal(t, router.TabUser, r.Active())
	assert.Equal(t, router.ViewUser, r.Resolve(true, entity.CapabilitySet{IsAdmin: true}))
}
