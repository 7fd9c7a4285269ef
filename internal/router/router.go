package router

import (
	"sync"

	"github.com/cardnft/card-market-gateway/internal/entity"
	"go.uber.org/zap"
)

// View is a top-level screen of the gateway.
type View string

const (
	ViewConnect   View = "connect"
	ViewUser      View = "user"
	ViewMarket    View = "market"
	ViewSwap      View = "swap"
	ViewInspector View = "inspector"
	ViewAdmin     View = "admin"
)

// Tab is a navigation request. Tabs map one to one onto views; the
// mapping only diverges when the session lacks the capability the
// view needs.
type Tab string

const (
	TabUser      Tab = "user"
	TabMarket    Tab = "market"
	TabSwap      Tab = "swap"
	TabInspector Tab = "inspector"
	TabAdmin     Tab = "admin"
)

// DefaultTab is where every fresh or reset session lands.
const DefaultTab = TabUser

// Router resolves the active view from the session state and the
// selected tab, and remembers the selection across resolutions.
type Router interface {
	Select(tab Tab)
	Reset()
	Active() Tab
	Resolve(hasAccount bool, caps entity.CapabilitySet) View
}

type router struct {
	mu  sync.Mutex
	tab Tab
}

func NewRouter() Router {
	return &router{tab: DefaultTab}
}

func (r *router) Select(tab Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch tab {
	case TabUser, TabMarket, TabSwap, TabInspector, TabAdmin:
		r.tab = tab
	default:
		zap.L().With(zap.String("tab", string(tab))).Warn("Router: unknown tab ignored")
	}
}

// Reset returns the router to the default tab. Called when the wallet
// account changes so a new account never inherits the old account's screen.
func (r *router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tab = DefaultTab
}

func (r *router) Active() Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.tab
}

// Resolve gates the selected tab by session state. No account always wins
// and yields the connect view. The admin view needs the admin capability;
// a non-admin selecting it is routed to the default user view rather than
// an error screen. The inspector tab is not gated: the view renders empty
// for accounts without the inspector role and the contract rejects their
// actions.
func (r *router) Resolve(hasAccount bool, caps entity.CapabilitySet) View {
	if !hasAccount {
		return ViewConnect
	}

	switch r.Active() {
	case TabMarket:
		return ViewMarket
	case TabSwap:
		return ViewSwap
	case TabInspector:
		return ViewInspector
	case TabAdmin:
		if !caps.IsAdmin {
			return ViewUser
		}
		return ViewAdmin
	default:
		return ViewUser
	}
}
