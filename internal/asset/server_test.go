package asset_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardnft/card-market-gateway/internal/asset"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	files map[string][]byte
}

func (f *fakeResolver) Resolve(card entity.Card) (string, error) {
	if _, ok := f.files[card.AssetKey()]; !ok {
		return "", asset.ErrAssetNotFound
	}
	return "http://cdn/" + card.AssetKey(), nil
}

func (f *fakeResolver) Fetch(card entity.Card) (io.ReadCloser, error) {
	data, ok := f.files[card.AssetKey()]
	if !ok {
		return nil, asset.ErrAssetNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestServer_GetByKey(t *testing.T) {
	// 0x89 0x50 0x4e 0x47 is the png magic; DetectContentType keys off it.
	png := append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)
	resolver := &fakeResolver{files: map[string][]byte{"OP09-007": png}}

	server := asset.NewServer(nil, resolver)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/OP09/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestServer_GetByKey_NotFound(t *testing.T) {
	server := asset.NewServer(nil, &fakeResolver{})

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/OP09/7", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_GetByKey_BadNumber(t *testing.T) {
	server := asset.NewServer(nil, &fakeResolver{})

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/OP09/seven", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
