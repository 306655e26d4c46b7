package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	backendURLENV     = "BACKEND_URL"
	rpcURLENV         = "RPC_URL"
	vaultAddressENV   = "VAULT_ADDRESS"
	adminKeyENV       = "ADMIN_PRIVATE_KEY"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`

	Backend struct {
		BaseURL string `yaml:"base_url"`
		// Таймауты в yaml не живут, только env (BACKEND_TIMEOUT и т.д.)
		Timeout time.Duration `yaml:"-"`
		// Путь websocket-ленты событий относительно base_url
		WSPath string `yaml:"ws_path"`
	} `yaml:"backend"`

	Ledger struct {
		RPCURL       string `yaml:"rpc_url"`
		VaultAddress string `yaml:"vault_address"`
		// Ключ management-операций. Чтение работает и без него.
		AdminPrivateKey string        `yaml:"admin_private_key"`
		ConfirmTimeout  time.Duration `yaml:"-"`
	} `yaml:"ledger"`

	// Дефолтная площадка исполнения для ордеров
	DefaultVenue string `yaml:"default_venue"`

	// Интервалы опроса. Статус — 10s, события — 5s,
	// он-чейн параметры меняются редко, читаем реже.
	StatusInterval  time.Duration
	EventsInterval  time.Duration
	OnchainInterval time.Duration
	EventsLimit     int

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		DefaultVenue: getenvDefault("DEFAULT_VENUE", "hyper"),

		StatusInterval:  durationFromEnv("STATUS_POLL_INTERVAL", "10s"),
		EventsInterval:  durationFromEnv("EVENTS_POLL_INTERVAL", "5s"),
		OnchainInterval: durationFromEnv("ONCHAIN_POLL_INTERVAL", "60s"),
		EventsLimit:     intFromEnv("EVENTS_LIMIT", 50),
	}
	config.Backend.Timeout = durationFromEnv("BACKEND_TIMEOUT", "10s")
	config.Ledger.ConfirmTimeout = durationFromEnv("CONFIRM_TIMEOUT", "30s")
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if config.Service.HealthAddr == "" {
		config.Service.HealthAddr = ":8080"
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}
	if v := os.Getenv(backendURLENV); v != "" {
		config.Backend.BaseURL = v
	}
	if v := os.Getenv(rpcURLENV); v != "" {
		config.Ledger.RPCURL = v
	}
	if v := os.Getenv(vaultAddressENV); v != "" {
		config.Ledger.VaultAddress = v
	}
	if v := os.Getenv(adminKeyENV); v != "" {
		config.Ledger.AdminPrivateKey = v
	}

	if config.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base_url is required (yaml backend.base_url or env %s)", backendURLENV)
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
