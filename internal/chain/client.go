package chain

import (
	"context"
	"errors"
	"time"

	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// NewClient dials the chain JSON-RPC endpoint over a retrying HTTP transport.
// Transient transport failures are retried with backoff; contract reverts are
// not (they come back as JSON-RPC errors, not HTTP failures).
func NewClient(cfg config.EthConfig) (*ethclient.Client, error) {
	if len(cfg.Url) == 0 {
		return nil, errors.New("bad call missing argument host")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = cfg.Retries
	if cfg.Debug {
		retryClient.Logger = zapLogger{}
	}

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = time.Duration(cfg.Timeout) * time.Second

	rpcClient, err := rpc.DialOptions(context.Background(), cfg.Url, rpc.WithHTTPClient(httpClient))
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("url", cfg.Url)).Error("Eth: RPC dial failed")
		return nil, err
	}

	return ethclient.NewClient(rpcClient), nil
}

type zapLogger struct{}

func (zapLogger) Printf(format string, v ...interface{}) {
	zap.S().Debugf(format, v...)
}
