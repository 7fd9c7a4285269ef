package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/cardnft/card-market-gateway/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env   string
	Debug bool

	ApiPort    string
	HealthPort string

	Eth      EthConfig
	Keystore KeystoreConfig
	Asset    AssetConfig
}

type EthConfig struct {
	Url           string
	Timeout       int
	Retries       int
	Debug         bool
	NftAddress    string
	MarketAddress string

	// ChainPollSeconds drives the chain-change watcher.
	ChainPollSeconds int
}

type KeystoreConfig struct {
	Dir        string
	Passphrase string
}

type AssetConfig struct {
	BaseUrl  string
	Port     string
	CacheTtl int
}

func Init(app string) {
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env, using environment")
	}

	initLogger(app)
}

func initLogger(app string) {
	log.NewLogger(fmt.Sprintf("%s/%s.log", getString("LOG_PATH", "./var/log"), app), Get().Debug)
}

func Get() *Config {
	return &Config{
		Env:        getString("ENV", ""),
		Debug:      getBool("DEBUG", false),
		ApiPort:    getString("API_PORT", "8080"),
		HealthPort: getString("HEALTH_PORT", "8089"),
		Eth: EthConfig{
			Url:              getString("ETH_URL", ""),
			Timeout:          getInt("ETH_TIMEOUT", 30),
			Retries:          getInt("ETH_RETRIES", 3),
			Debug:            getBool("ETH_DEBUG", false),
			NftAddress:       getString("NFT_ADDRESS", ""),
			MarketAddress:    getString("MARKET_ADDRESS", ""),
			ChainPollSeconds: getInt("CHAIN_POLL_SECONDS", 15),
		},
		Keystore: KeystoreConfig{
			Dir:        getString("KEYSTORE_DIR", "./var/keystore"),
			Passphrase: getString("KEYSTORE_PASSPHRASE", ""),
		},
		Asset: AssetConfig{
			BaseUrl:  getString("ASSET_BASE_URL", ""),
			Port:     getString("ASSET_PORT", "8081"),
			CacheTtl: getInt("ASSET_CACHE_TTL", 300),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}
