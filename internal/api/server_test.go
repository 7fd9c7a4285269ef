package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardnft/card-market-gateway/internal/api"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/roles"
	"github.com/cardnft/card-market-gateway/internal/router"
	"github.com/cardnft/card-market-gateway/internal/view"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var account = common.HexToAddress("0xa9AA25Ea6d8F9b4c3f8aAB20a7c9b1f7a1039965")

type fakeSession struct {
	snap wallet.Snapshot
}

func (f *fakeSession) Current() wallet.Snapshot { return f.snap }

func (f *fakeSession) Account() (common.Address, bool) {
	return f.snap.Account, f.snap.HasAccount
}

type fakeResolver struct {
	caps entity.CapabilitySet
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, account common.Address) (entity.CapabilitySet, error) {
	return f.caps, f.err
}

func (f *fakeResolver) Rebind(access roles.AccessReader) {}

type fakeCards struct {
	owned   []entity.CardRow
	results []entity.CardRow
	pending []entity.ReviewItem
	card    entity.Card
	cardErr error
}

func (f *fakeCards) OwnedCards(ctx context.Context, owner common.Address) ([]entity.CardRow, error) {
	return f.owned, nil
}
func (f *fakeCards) Search(ctx context.Context, q view.SearchQuery) ([]entity.CardRow, error) {
	return f.results, nil
}
func (f *fakeCards) PendingReview(ctx context.Context) ([]entity.ReviewItem, error) {
	return f.pending, nil
}
func (f *fakeCards) CardOf(ctx context.Context, tokenId uint64) (entity.Card, error) {
	return f.card, f.cardErr
}
func (f *fakeCards) ListingOf(ctx context.Context, tokenId uint64) (entity.Listing, error) {
	return entity.Listing{TokenId: tokenId}, nil
}
func (f *fakeCards) PendingOf(ctx context.Context, tokenId uint64) (entity.PendingListing, error) {
	return entity.PendingListing{}, nil
}
func (f *fakeCards) ApprovalOf(ctx context.Context, owner common.Address, tokenId uint64) (entity.Approval, error) {
	return entity.Approval{}, nil
}
func (f *fakeCards) SwapOfferOf(ctx context.Context, offeredTokenId uint64) (entity.SwapOffer, error) {
	return entity.SwapOffer{}, nil
}
func (f *fakeCards) Rebind(nft view.NftReader, market view.MarketReader) {}

func newServer(session *fakeSession, resolver *fakeResolver, cards *fakeCards) http.Handler {
	return api.NewServer(session, resolver, cards, nil, router.NewRouter()).Router()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestHandleSession(t *testing.T) {
	session := &fakeSession{snap: wallet.Snapshot{Account: account, HasAccount: true, ChainId: "31337"}}
	handler := newServer(session, &fakeResolver{}, &fakeCards{})

	rec := get(t, handler, "/session")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap wallet.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, account, snap.Account)
	assert.Equal(t, "31337", snap.ChainId)
}

func TestHandleRoles_NoAccount(t *testing.T) {
	handler := newServer(&fakeSession{}, &fakeResolver{}, &fakeCards{})

	rec := get(t, handler, "/roles")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleRoles_StaleOnResolveError(t *testing.T) {
	session := &fakeSession{snap: wallet.Snapshot{Account: account, HasAccount: true}}
	resolver := &fakeResolver{caps: entity.CapabilitySet{IsMinter: true}, err: context.DeadlineExceeded}
	handler := newServer(session, resolver, &fakeCards{})

	rec := get(t, handler, "/roles")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Capabilities entity.CapabilitySet `json:"capabilities"`
		Stale        bool                 `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Stale)
	assert.True(t, body.Capabilities.IsMinter)
}

func TestHandleView_NoAccountIsConnect(t *testing.T) {
	handler := newServer(&fakeSession{}, &fakeResolver{}, &fakeCards{})

	rec := get(t, handler, "/view")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(router.ViewConnect))
}

func TestHandleSelectTab_AdminGatedByCapability(t *testing.T) {
	session := &fakeSession{snap: wallet.Snapshot{Account: account, HasAccount: true}}
	handler := newServer(session, &fakeResolver{}, &fakeCards{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/view/admin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(router.ViewUser))
}

func TestHandleCard(t *testing.T) {
	cards := &fakeCards{card: entity.Card{TokenId: 7, Expansion: "OP09", Number: 7}}
	handler := newServer(&fakeSession{}, &fakeResolver{}, cards)

	rec := get(t, handler, "/cards/7")
	require.Equal(t, http.StatusOK, rec.Code)

	var card entity.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "OP09", card.Expansion)
}

func TestHandleSearch_MalformedNumberIsBadRequest(t *testing.T) {
	handler := newServer(&fakeSession{}, &fakeResolver{}, &fakeCards{})

	rec := get(t, handler, "/cards/search?expansion=OP09&number=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid card number")

	rec = get(t, handler, "/cards/search?expansion=OP09&number=007")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminEndpoints_ForbiddenWithoutAdminRole(t *testing.T) {
	session := &fakeSession{snap: wallet.Snapshot{Account: account, HasAccount: true}}
	handler := newServer(session, &fakeResolver{caps: entity.CapabilitySet{IsMinter: true}}, &fakeCards{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/grant", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
