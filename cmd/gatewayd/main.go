package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cardnft/card-market-gateway/internal/api"
	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/config/di"
	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	config.Init("gateway")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	// A missing or locked wallet is not fatal: the API serves the connect
	// view until a session is available.
	session := container.Get("session").(*wallet.Session)
	if err := session.Connect(context.Background(), config.Get().Eth.ChainPollSeconds); err != nil {
		zap.L().With(zap.Error(err)).Warn("No wallet session, starting disconnected")
	} else {
		defer session.Disconnect()
	}

	go health()

	zap.L().With(
		zap.String("port", config.Get().ApiPort),
		zap.String("account", session.Current().Account.Hex()),
		zap.String("chainId", session.Current().ChainId),
	).Info("Gateway Started")

	server := container.Get("api").(api.Server)
	if err := http.ListenAndServe(":"+config.Get().ApiPort, server.Router()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start gateway")
	}
}

func health() {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, router()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health server")
	}
}

func router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
