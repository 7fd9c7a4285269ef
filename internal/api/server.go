package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/event"
	"github.com/cardnft/card-market-gateway/internal/orchestrator"
	"github.com/cardnft/card-market-gateway/internal/roles"
	"github.com/cardnft/card-market-gateway/internal/router"
	"github.com/cardnft/card-market-gateway/internal/view"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionState is the read side of the wallet session.
type SessionState interface {
	Current() wallet.Snapshot
	Account() (common.Address, bool)
}

// Server is the JSON surface of the gateway: session state, card and
// listing snapshots, and the write actions behind them.
type Server struct {
	session SessionState
	roles   roles.Resolver
	cards   view.ViewModel
	actions *orchestrator.Orchestrator
	views   router.Router
}

func NewServer(session SessionState, resolver roles.Resolver, cards view.ViewModel, actions *orchestrator.Orchestrator, views router.Router) Server {
	s := Server{session: session, roles: resolver, cards: cards, actions: actions, views: views}

	// A new account must not inherit the previous account's screen.
	event.AddEventListener(event.SessionChangedEvent, func(el interface{}) {
		if snap, ok := el.(wallet.Snapshot); ok && snap.AccountChanged {
			s.views.Reset()
		}
	})

	return s
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/session", s.handleSession).Methods("GET")
	r.HandleFunc("/roles", s.handleRoles).Methods("GET")
	r.HandleFunc("/view", s.handleView).Methods("GET")
	r.HandleFunc("/view/{tab}", s.handleSelectTab).Methods("POST")

	r.HandleFunc("/cards/owned", s.handleOwned).Methods("GET")
	r.HandleFunc("/cards/owned/{address}", s.handleOwnedOf).Methods("GET")
	r.HandleFunc("/cards/search", s.handleSearch).Methods("GET")
	r.HandleFunc("/cards/{tokenId}", s.handleCard).Methods("GET")
	r.HandleFunc("/review/pending", s.handlePendingReview).Methods("GET")
	r.HandleFunc("/listings/{tokenId}", s.handleListing).Methods("GET")
	r.HandleFunc("/approvals/{tokenId}", s.handleApproval).Methods("GET")
	r.HandleFunc("/swaps/{tokenId}", s.handleSwapOffer).Methods("GET")

	r.HandleFunc("/cards/mint", s.handleMint).Methods("POST")
	r.HandleFunc("/cards/{tokenId}/approve", s.handleApprove).Methods("POST")
	r.HandleFunc("/cards/approve-all", s.handleApproveAll).Methods("POST")
	r.HandleFunc("/cards/{tokenId}/grade", s.handleGrade).Methods("POST")
	r.HandleFunc("/listings/{tokenId}/list", s.handleList).Methods("POST")
	r.HandleFunc("/listings/{tokenId}/cancel", s.handleCancel).Methods("POST")
	r.HandleFunc("/listings/{tokenId}/buy", s.handleBuy).Methods("POST")
	r.HandleFunc("/review/{tokenId}/finalize", s.handleFinalize).Methods("POST")
	r.HandleFunc("/swaps/{tokenId}/offer", s.handleOfferSwap).Methods("POST")
	r.HandleFunc("/swaps/{tokenId}/accept", s.handleAcceptSwap).Methods("POST")
	r.HandleFunc("/swaps/{tokenId}/cancel", s.handleCancelSwap).Methods("POST")

	r.HandleFunc("/admin/grant", s.adminOnly(s.handleGrantRole)).Methods("POST")
	r.HandleFunc("/admin/revoke", s.adminOnly(s.handleRevokeRole)).Methods("POST")
	r.HandleFunc("/admin/cards/{tokenId}/grade", s.adminOnly(s.handleAdminGrade)).Methods("POST")

	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "OK")
}

func (s Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, s.session.Current())
}

// handleRoles resolves the capability set of the session account. When the
// chain is unreachable the last known flags are returned with a stale marker.
func (s Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	account, ok := s.session.Account()
	if !ok {
		writeError(w, http.StatusConflict, wallet.ErrNotConnected)
		return
	}

	caps, err := s.roles.Resolve(r.Context(), account)
	writeJson(w, http.StatusOK, map[string]interface{}{
		"capabilities": caps,
		"stale":        err != nil,
	})
}

func (s Server) handleView(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Current()

	caps := entity.CapabilitySet{}
	if snap.HasAccount {
		caps, _ = s.roles.Resolve(r.Context(), snap.Account)
	}

	writeJson(w, http.StatusOK, map[string]interface{}{
		"tab":  s.views.Active(),
		"view": s.views.Resolve(snap.HasAccount, caps),
	})
}

func (s Server) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	s.views.Select(router.Tab(mux.Vars(r)["tab"]))
	s.handleView(w, r)
}

func (s Server) handleOwned(w http.ResponseWriter, r *http.Request) {
	account, ok := s.session.Account()
	if !ok {
		writeError(w, http.StatusConflict, wallet.ErrNotConnected)
		return
	}

	s.writeOwned(w, r, account)
}

func (s Server) handleOwnedOf(w http.ResponseWriter, r *http.Request) {
	address, ok := mux.Vars(r)["address"]
	if !ok || !common.IsHexAddress(address) {
		writeError(w, http.StatusBadRequest, errors.New("invalid address"))
		return
	}

	s.writeOwned(w, r, common.HexToAddress(address))
}

func (s Server) writeOwned(w http.ResponseWriter, r *http.Request, owner common.Address) {
	rows, err := s.cards.OwnedCards(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, rows)
}

func (s Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := view.SearchQuery{
		Expansion:  r.URL.Query().Get("expansion"),
		Number:     r.URL.Query().Get("number"),
		OnlyListed: r.URL.Query().Get("forSale") == "true",
	}
	if q.Number != "" {
		if _, err := strconv.ParseUint(q.Number, 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid card number %q", q.Number))
			return
		}
	}

	rows, err := s.cards.Search(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, rows)
}

func (s Server) handleCard(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	card, err := s.cards.CardOf(r.Context(), tokenId)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJson(w, http.StatusOK, card)
}

func (s Server) handlePendingReview(w http.ResponseWriter, r *http.Request) {
	items, err := s.cards.PendingReview(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, items)
}

func (s Server) handleListing(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	listing, err := s.cards.ListingOf(r.Context(), tokenId)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	pending, err := s.cards.PendingOf(r.Context(), tokenId)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{
		"listing": listing,
		"pending": pending,
	})
}

func (s Server) handleApproval(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	account, ok := s.session.Account()
	if !ok {
		writeError(w, http.StatusConflict, wallet.ErrNotConnected)
		return
	}

	approval, err := s.cards.ApprovalOf(r.Context(), account, tokenId)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, approval)
}

func (s Server) handleSwapOffer(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	offer, err := s.cards.SwapOfferOf(r.Context(), tokenId)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJson(w, http.StatusOK, offer)
}

type mintRequest struct {
	To        string `json:"to"`
	Game      string `json:"game"`
	Expansion string `json:"expansion"`
	Number    uint64 `json:"number"`
	Rarity    string `json:"rarity"`
}

func (s Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !common.IsHexAddress(req.To) {
		writeError(w, http.StatusBadRequest, errors.New("invalid recipient address"))
		return
	}

	s.writeResult(w)(s.actions.Mint(r.Context(), common.HexToAddress(req.To), req.Game, req.Expansion, req.Number, req.Rarity))
}

func (s Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.tokenAction(w, r, s.actions.Approve)
}

func (s Server) handleApproveAll(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w)(s.actions.ApproveForAll(r.Context()))
}

type gradeRequest struct {
	Condition uint8 `json:"condition"`
}

func (s Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	tokenId, condition, err := gradeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.UpdateCondition(r.Context(), tokenId, condition))
}

func (s Server) handleAdminGrade(w http.ResponseWriter, r *http.Request) {
	tokenId, condition, err := gradeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.AdminUpdateCondition(r.Context(), tokenId, condition))
}

type listRequest struct {
	PriceEth string `json:"priceEth"`
}

func (s Server) handleList(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.List(r.Context(), tokenId, req.PriceEth))
}

func (s Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.tokenAction(w, r, s.actions.Cancel)
}

func (s Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.tokenAction(w, r, s.actions.Buy)
}

func (s Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	tokenId, condition, err := gradeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	outcome, err := s.actions.FinalizeReview(r.Context(), tokenId, condition)

	status := http.StatusOK
	if err != nil {
		status = http.StatusConflict
	}
	writeJson(w, status, outcome)
}

type swapRequest struct {
	WantedTokenId uint64 `json:"wantedTokenId"`
}

func (s Server) handleOfferSwap(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.OfferSwap(r.Context(), tokenId, req.WantedTokenId))
}

func (s Server) handleAcceptSwap(w http.ResponseWriter, r *http.Request) {
	s.tokenAction(w, r, s.actions.AcceptSwap)
}

func (s Server) handleCancelSwap(w http.ResponseWriter, r *http.Request) {
	s.tokenAction(w, r, s.actions.CancelSwap)
}

type roleRequest struct {
	Role    string `json:"role"`
	Account string `json:"account"`
}

func (s Server) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	role, account, err := roleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.GrantRole(r.Context(), role, account))
}

func (s Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	role, account, err := roleParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(s.actions.RevokeRole(r.Context(), role, account))
}

// adminOnly gates a handler on the admin capability of the session account.
// The check is advisory; the contract enforces the role again on chain.
func (s Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.session.Account()
		if !ok {
			writeError(w, http.StatusConflict, wallet.ErrNotConnected)
			return
		}

		caps, err := s.roles.Resolve(r.Context(), account)
		if err != nil {
			zap.L().With(zap.Error(err)).Warn("Api: role check degraded, using last known flags")
		}
		if !caps.IsAdmin {
			writeError(w, http.StatusForbidden, errors.New("admin role required"))
			return
		}

		next(w, r)
	}
}

func (s Server) tokenAction(w http.ResponseWriter, r *http.Request, action func(context.Context, uint64) (orchestrator.Result, error)) {
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeResult(w)(action(r.Context(), tokenId))
}

// writeResult maps an action outcome to a response: confirmed results are
// 200, failures carry the short reason with 409.
func (s Server) writeResult(w http.ResponseWriter) func(orchestrator.Result, error) {
	return func(res orchestrator.Result, err error) {
		status := http.StatusOK
		if err != nil {
			status = http.StatusConflict
		}
		writeJson(w, status, res)
	}
}

func gradeParams(r *http.Request) (uint64, entity.Condition, error) {
	tokenId, err := getTokenId(r)
	if err != nil {
		return 0, 0, err
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, 0, err
	}

	return tokenId, entity.Condition(req.Condition), nil
}

func roleParams(r *http.Request) ([32]byte, common.Address, error) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return [32]byte{}, common.Address{}, err
	}

	role, ok := roles.ById(req.Role)
	if !ok {
		return [32]byte{}, common.Address{}, fmt.Errorf("unknown role %q", req.Role)
	}
	if !common.IsHexAddress(req.Account) {
		return [32]byte{}, common.Address{}, errors.New("invalid account address")
	}

	return role, common.HexToAddress(req.Account), nil
}

func getTokenId(r *http.Request) (uint64, error) {
	tokenId, ok := mux.Vars(r)["tokenId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(tokenId, 10, 64)
}

func writeJson(w http.ResponseWriter, status int, el interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(el); err != nil {
		zap.L().With(zap.Error(err)).Error("Api: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJson(w, status, map[string]string{"error": err.Error()})
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
