package asset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/entity"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var ErrAssetNotFound = errors.New("asset not found")

// extensions in probe order. The first candidate that answers 200 wins.
var extensions = []string{"webp", "png", "jpg", "jpeg"}

// Resolver locates the artwork for a card by probing the asset origin for
// each known extension of the card's expansion-number key.
type Resolver interface {
	Resolve(card entity.Card) (string, error)
	Fetch(card entity.Card) (io.ReadCloser, error)
}

type resolver struct {
	baseUrl string
	client  *http.Client
	cache   *cache.Cache
}

func NewResolver(cfg config.AssetConfig) Resolver {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 1
	client.HTTPClient.Timeout = time.Duration(10) * time.Second

	return &resolver{
		baseUrl: cfg.BaseUrl,
		client:  client.StandardClient(),
		cache:   cache.New(time.Duration(cfg.CacheTtl)*time.Second, time.Duration(cfg.CacheTtl)*2*time.Second),
	}
}

// Resolve returns the url of the first extension the origin serves for the
// card's asset key. Resolutions are cached; misses are not, so a late upload
// is picked up on the next call.
func (r *resolver) Resolve(card entity.Card) (string, error) {
	key := card.AssetKey()

	if url, ok := r.cache.Get(key); ok {
		return url.(string), nil
	}

	for _, ext := range extensions {
		url := fmt.Sprintf("%s/%s.%s", r.baseUrl, key, ext)

		resp, err := r.client.Head(url)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("url", url)).Debug("Asset: probe failed")
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			r.cache.Set(key, url, cache.DefaultExpiration)
			return url, nil
		}
	}

	return "", ErrAssetNotFound
}

func (r *resolver) Fetch(card entity.Card) (io.ReadCloser, error) {
	url, err := r.Resolve(card)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		r.cache.Delete(card.AssetKey())
		return nil, ErrAssetNotFound
	}

	return resp.Body, nil
}
