package main

import (
	"net/http"

	"github.com/cardnft/card-market-gateway/internal/asset"
	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/config/di"
	"go.uber.org/zap"
)

func main() {
	config.Init("asset")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	router := container.Get("asset.server").(asset.Server).Router()

	zap.L().Info("Serving artwork on :" + config.Get().Asset.Port)

	if err := http.ListenAndServe(":"+config.Get().Asset.Port, router); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start artwork server")
	}
}
