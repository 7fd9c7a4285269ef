package di

import (
	"github.com/cardnft/card-market-gateway/internal/api"
	"github.com/cardnft/card-market-gateway/internal/asset"
	"github.com/cardnft/card-market-gateway/internal/chain"
	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/contract"
	"github.com/cardnft/card-market-gateway/internal/event"
	"github.com/cardnft/card-market-gateway/internal/orchestrator"
	"github.com/cardnft/card-market-gateway/internal/roles"
	"github.com/cardnft/card-market-gateway/internal/router"
	"github.com/cardnft/card-market-gateway/internal/view"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []di.Def{
	{
		Name: "chain",
		Build: func(ctn di.Container) (interface{}, error) {
			client, err := chain.NewClient(config.Get().Eth)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to connect to chain")
			}

			return client, nil
		},
	},
	{
		Name: "session",
		Build: func(ctn di.Container) (interface{}, error) {
			return wallet.NewSession(ctn.Get("chain").(*ethclient.Client), config.Get().Keystore), nil
		},
	},
	{
		Name: "bindings",
		Build: func(ctn di.Container) (interface{}, error) {
			bindings, err := contract.NewBindings(ctn.Get("chain").(*ethclient.Client), config.Get().Eth)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to bind contracts")
			}

			return bindings, nil
		},
	},
	{
		Name: "roles",
		Build: func(ctn di.Container) (interface{}, error) {
			bindings := ctn.Get("bindings").(*contract.Bindings)
			return roles.NewResolver(bindings.Nft), nil
		},
	},
	{
		Name: "view",
		Build: func(ctn di.Container) (interface{}, error) {
			bindings := ctn.Get("bindings").(*contract.Bindings)
			return view.NewViewModel(bindings.Nft, bindings.Market, bindings.Market.Address()), nil
		},
	},
	{
		Name: "orchestrator",
		Build: func(ctn di.Container) (interface{}, error) {
			bindings := ctn.Get("bindings").(*contract.Bindings)
			session := ctn.Get("session").(*wallet.Session)
			client := ctn.Get("chain").(*ethclient.Client)

			status := func(state orchestrator.State, message string) {
				zap.L().With(zap.String("state", string(state))).Info(message)
			}

			return orchestrator.NewOrchestrator(session, bindings.Nft, bindings.Market, client, status), nil
		},
	},
	{
		Name: "router",
		Build: func(ctn di.Container) (interface{}, error) {
			return router.NewRouter(), nil
		},
	},
	{
		Name: "asset.resolver",
		Build: func(ctn di.Container) (interface{}, error) {
			return asset.NewResolver(config.Get().Asset), nil
		},
	},
	{
		Name: "asset.server",
		Build: func(ctn di.Container) (interface{}, error) {
			return asset.NewServer(
				ctn.Get("view").(view.ViewModel),
				ctn.Get("asset.resolver").(asset.Resolver),
			), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn di.Container) (interface{}, error) {
			return api.NewServer(
				ctn.Get("session").(*wallet.Session),
				ctn.Get("roles").(roles.Resolver),
				ctn.Get("view").(view.ViewModel),
				ctn.Get("orchestrator").(*orchestrator.Orchestrator),
				ctn.Get("router").(router.Router),
			), nil
		},
	},
}

// NewContainer builds the service container and wires the session refresh:
// when the wallet account changes the contract bindings are rebuilt and every
// consumer is rebound.
func NewContainer() (di.Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}
	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	ctn := builder.Build()

	event.AddEventListener(event.SessionChangedEvent, func(el interface{}) {
		snap, ok := el.(wallet.Snapshot)
		if !ok || !snap.AccountChanged {
			return
		}

		client := ctn.Get("chain").(*ethclient.Client)
		bindings, err := contract.NewBindings(client, config.Get().Eth)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to rebuild contract bindings")
			return
		}

		ctn.Get("roles").(roles.Resolver).Rebind(bindings.Nft)
		ctn.Get("view").(view.ViewModel).Rebind(bindings.Nft, bindings.Market)
		ctn.Get("orchestrator").(*orchestrator.Orchestrator).Rebind(bindings.Nft, bindings.Market)
		zap.L().With(zap.String("account", snap.Account.Hex())).Info("Session changed, contracts rebound")
	})

	return ctn, nil
}
