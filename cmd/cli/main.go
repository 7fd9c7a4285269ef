package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cardnft/card-market-gateway/internal/asset"
	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/config/di"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/orchestrator"
	"github.com/cardnft/card-market-gateway/internal/roles"
	"github.com/cardnft/card-market-gateway/internal/view"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	session      *wallet.Session
	roleResolver roles.Resolver
	cards        view.ViewModel
	actions      *orchestrator.Orchestrator
	artwork      asset.Resolver
)

func main() {
	config.Init("cli")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	session = container.Get("session").(*wallet.Session)
	roleResolver = container.Get("roles").(roles.Resolver)
	cards = container.Get("view").(view.ViewModel)
	actions = container.Get("orchestrator").(*orchestrator.Orchestrator)
	artwork = container.Get("asset.resolver").(asset.Resolver)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "session",
				Usage:  "Show the wallet session",
				Action: showSession,
			},
			{
				Name:   "roles",
				Usage:  "Show the capability flags of the session account",
				Action: showRoles,
			},
			{
				Name:   "owned",
				Usage:  "List cards owned by the session account (or a given address)",
				Action: showOwned,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Value: "", Usage: "Owner address, defaults to the session account"},
				},
			},
			{
				Name:   "search",
				Usage:  "Search the full collection",
				Action: searchCards,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "expansion", Value: "", Usage: "Exact expansion code, case insensitive"},
					&cli.StringFlag{Name: "number", Value: "", Usage: "Card number, leading zeros tolerated"},
					&cli.BoolFlag{Name: "for-sale", Usage: "Only show listed cards"},
				},
			},
			{
				Name:   "pending",
				Usage:  "Show the inspector review queue",
				Action: showPending,
			},
			{
				Name:   "card",
				Usage:  "Show one card with its listing and artwork url",
				Action: showCard,
			},
			{
				Name:   "mint",
				Usage:  "Mint a card to an address",
				Action: mintCard,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Required: true},
					&cli.StringFlag{Name: "game", Required: true},
					&cli.StringFlag{Name: "expansion", Required: true},
					&cli.Uint64Flag{Name: "number", Required: true},
					&cli.StringFlag{Name: "rarity", Required: true},
				},
			},
			{
				Name:   "approve",
				Usage:  "Approve the market for one token",
				Action: tokenAction(func(ctx context.Context, tokenId uint64) (orchestrator.Result, error) {
					return actions.Approve(ctx, tokenId)
				}),
			},
			{
				Name:  "approve-all",
				Usage: "Approve the market for every token of the session account",
				Action: func(c *cli.Context) error {
					return printResult(actions.ApproveForAll(c.Context))
				},
			},
			{
				Name:   "list",
				Usage:  "Submit a token for sale at a decimal ETH price",
				Action: listCard,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "price", Required: true, Usage: "Price in ETH, e.g. 0.05"},
				},
			},
			{
				Name: "cancel",
				Usage: "Cancel a listing or a pending sell request",
				Action: tokenAction(func(ctx context.Context, tokenId uint64) (orchestrator.Result, error) {
					return actions.Cancel(ctx, tokenId)
				}),
			},
			{
				Name:  "buy",
				Usage: "Buy a listed token at its asking price",
				Action: tokenAction(func(ctx context.Context, tokenId uint64) (orchestrator.Result, error) {
					return actions.Buy(ctx, tokenId)
				}),
			},
			{
				Name:   "grade",
				Usage:  "Update the condition of a token",
				Action: gradeCard,
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "condition", Required: true, Usage: "0=UNKNOWN .. 6=GRADED"},
					&cli.BoolFlag{Name: "admin", Usage: "Use the admin override"},
				},
			},
			{
				Name:   "finalize",
				Usage:  "Grade a pending token and publish its listing",
				Action: finalizeReview,
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "condition", Required: true, Usage: "0=UNKNOWN .. 6=GRADED"},
				},
			},
			{
				Name:   "grant",
				Usage:  "Grant a role to an account",
				Action: grantRole,
				Flags:  roleFlags(),
			},
			{
				Name:   "revoke",
				Usage:  "Revoke a role from an account",
				Action: revokeRole,
				Flags:  roleFlags(),
			},
			{
				Name:   "swap-offer",
				Usage:  "Offer one token in exchange for another",
				Action: offerSwap,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "wanted", Required: true, Usage: "Token id wanted in return"},
				},
			},
			{
				Name:  "swap-accept",
				Usage: "Accept a swap offer made against one of your tokens",
				Action: tokenAction(func(ctx context.Context, tokenId uint64) (orchestrator.Result, error) {
					return actions.AcceptSwap(ctx, tokenId)
				}),
			},
			{
				Name:  "swap-cancel",
				Usage: "Withdraw a swap offer",
				Action: tokenAction(func(ctx context.Context, tokenId uint64) (orchestrator.Result, error) {
					return actions.CancelSwap(ctx, tokenId)
				}),
			},
		},
		Before: func(c *cli.Context) error {
			return session.Connect(c.Context, config.Get().Eth.ChainPollSeconds)
		},
		After: func(c *cli.Context) error {
			session.Disconnect()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func showSession(c *cli.Context) error {
	return printJson(session.Current())
}

func showRoles(c *cli.Context) error {
	account, ok := session.Account()
	if !ok {
		return wallet.ErrNotConnected
	}

	caps, err := roleResolver.Resolve(c.Context, account)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Role check degraded, showing last known flags")
	}

	return printJson(caps)
}

func showOwned(c *cli.Context) error {
	owner, ok := session.Account()
	if addr := c.String("address"); addr != "" {
		if !common.IsHexAddress(addr) {
			return errors.New("invalid owner address")
		}
		owner, ok = common.HexToAddress(addr), true
	}
	if !ok {
		return wallet.ErrNotConnected
	}

	rows, err := cards.OwnedCards(c.Context, owner)
	if err != nil {
		return err
	}

	return printJson(rows)
}

func searchCards(c *cli.Context) error {
	rows, err := cards.Search(c.Context, view.SearchQuery{
		Expansion:  c.String("expansion"),
		Number:     c.String("number"),
		OnlyListed: c.Bool("for-sale"),
	})
	if err != nil {
		return err
	}

	return printJson(rows)
}

func showPending(c *cli.Context) error {
	items, err := cards.PendingReview(c.Context)
	if err != nil {
		return err
	}

	return printJson(items)
}

func showCard(c *cli.Context) error {
	tokenId, err := tokenIdArg(c)
	if err != nil {
		return err
	}

	card, err := cards.CardOf(c.Context, tokenId)
	if err != nil {
		return err
	}

	listing, err := cards.ListingOf(c.Context, tokenId)
	if err != nil {
		return err
	}

	url, err := artwork.Resolve(card)
	if err != nil {
		zap.L().With(zap.String("key", card.AssetKey())).Warn("No artwork found")
	}

	return printJson(map[string]interface{}{
		"card":    card,
		"listing": listing,
		"artwork": url,
	})
}

func mintCard(c *cli.Context) error {
	to := c.String("to")
	if !common.IsHexAddress(to) {
		return errors.New("invalid recipient address")
	}

	return printResult(actions.Mint(
		c.Context,
		common.HexToAddress(to),
		c.String("game"),
		c.String("expansion"),
		c.Uint64("number"),
		c.String("rarity"),
	))
}

func listCard(c *cli.Context) error {
	tokenId, err := tokenIdArg(c)
	if err != nil {
		return err
	}

	return printResult(actions.List(c.Context, tokenId, c.String("price")))
}

func gradeCard(c *cli.Context) error {
	tokenId, err := tokenIdArg(c)
	if err != nil {
		return err
	}

	condition := entity.Condition(c.Uint("condition"))
	if c.Bool("admin") {
		return printResult(actions.AdminUpdateCondition(c.Context, tokenId, condition))
	}

	return printResult(actions.UpdateCondition(c.Context, tokenId, condition))
}

func finalizeReview(c *cli.Context) error {
	tokenId, err := tokenIdArg(c)
	if err != nil {
		return err
	}

	outcome, err := actions.FinalizeReview(c.Context, tokenId, entity.Condition(c.Uint("condition")))
	if printErr := printJson(outcome); printErr != nil {
		return printErr
	}

	return err
}

func grantRole(c *cli.Context) error {
	role, account, err := roleArgs(c)
	if err != nil {
		return err
	}

	return printResult(actions.GrantRole(c.Context, role, account))
}

func revokeRole(c *cli.Context) error {
	role, account, err := roleArgs(c)
	if err != nil {
		return err
	}

	return printResult(actions.RevokeRole(c.Context, role, account))
}

func offerSwap(c *cli.Context) error {
	tokenId, err := tokenIdArg(c)
	if err != nil {
		return err
	}

	return printResult(actions.OfferSwap(c.Context, tokenId, c.Uint64("wanted")))
}

func tokenAction(action func(context.Context, uint64) (orchestrator.Result, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		tokenId, err := tokenIdArg(c)
		if err != nil {
			return err
		}

		return printResult(action(c.Context, tokenId))
	}
}

func roleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "role", Required: true, Usage: "ADMIN, MINTER or INSPECTOR"},
		&cli.StringFlag{Name: "account", Required: true},
	}
}

func roleArgs(c *cli.Context) ([32]byte, common.Address, error) {
	role, ok := roles.ById(c.String("role"))
	if !ok {
		return [32]byte{}, common.Address{}, fmt.Errorf("unknown role %q", c.String("role"))
	}

	account := c.String("account")
	if !common.IsHexAddress(account) {
		return [32]byte{}, common.Address{}, errors.New("invalid account address")
	}

	return role, common.HexToAddress(account), nil
}

func tokenIdArg(c *cli.Context) (uint64, error) {
	if c.Args().Len() == 0 {
		return 0, errors.New("token id required")
	}

	return strconv.ParseUint(c.Args().First(), 10, 64)
}

func printResult(res orchestrator.Result, err error) error {
	if printErr := printJson(res); printErr != nil {
		return printErr
	}

	return err
}

func printJson(el interface{}) error {
	out, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
