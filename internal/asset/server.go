package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/cardnft/card-market-gateway/internal/view"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server proxies card artwork. Artwork is addressed by expansion and card
// number; the token route resolves those from the card on chain first. The
// bytes are streamed with a sniffed content type.
type Server struct {
	cards    view.ViewModel
	resolver Resolver
}

func NewServer(cards view.ViewModel, resolver Resolver) Server {
	return Server{cards, resolver}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/token/{tokenId}", s.handleGetByToken).Methods("GET")
	r.HandleFunc("/{expansion}/{number}", s.handleGetByKey).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "Card Artwork CDN")
}

func (s Server) handleGetByKey(w http.ResponseWriter, r *http.Request) {
	expansion := mux.Vars(r)["expansion"]
	number, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid card number", http.StatusBadRequest)
		return
	}

	s.serve(w, entity.Card{Expansion: expansion, Number: number})
}

func (s Server) handleGetByToken(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	card, err := s.cards.CardOf(r.Context(), tokenId)
	if err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("tokenId", tokenId)).Warn("Card not available")
		http.Error(w, "Card not available", http.StatusNotFound)
		return
	}

	s.serve(w, card)
}

func (s Server) serve(w http.ResponseWriter, card entity.Card) {
	body, err := s.resolver.Fetch(card)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("key", card.AssetKey())).Warn("Card artwork not available")
		http.Error(w, "Card artwork not available", http.StatusNotFound)
		return
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(body); err != nil {
		zap.L().With(zap.Error(err)).Warn("Failed to process artwork")
		http.Error(w, "Failed to process artwork", http.StatusInternalServerError)
		return
	}

	data := buf.Bytes()

	w.Header().Add("Content-Type", http.DetectContentType(data))
	w.WriteHeader(200)
	_, _ = w.Write(data)
	zap.L().With(zap.String("key", card.AssetKey())).Info("Serving artwork")
}

func getTokenId(r *http.Request) (uint64, error) {
	tokenId, ok := mux.Vars(r)["tokenId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(tokenId, 10, 64)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
