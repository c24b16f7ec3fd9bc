package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	EngineAccount   string
	TreasuryAccount string
	PayAsset        string
	FeeAsset        string
	RegistrationFee uint64

	DisburseInterval time.Duration
	CheckCron        string
	OutboxTopic      string

	DispatchGasLimit  uint64
	AllowOutOfOrder   bool
	EnableOutboxRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "remit"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	engineAccount := os.Getenv("ENGINE_ACCOUNT")
	if engineAccount == "" {
		engineAccount = "disbursement-engine"
	}
	treasuryAccount := os.Getenv("TREASURY_ACCOUNT")
	if treasuryAccount == "" {
		treasuryAccount = "treasury"
	}
	payAsset := os.Getenv("PAY_ASSET")
	if payAsset == "" {
		payAsset = "USDX"
	}
	feeAsset := os.Getenv("FEE_ASSET")
	if feeAsset == "" {
		feeAsset = "LINKX"
	}

	checkCron := os.Getenv("CHECK_CRON")
	if checkCron == "" {
		checkCron = "@every 15s"
	}
	outboxTopic := os.Getenv("OUTBOX_TOPIC")
	if outboxTopic == "" {
		outboxTopic = "payroll.settlements"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		EngineAccount:   engineAccount,
		TreasuryAccount: treasuryAccount,
		PayAsset:        payAsset,
		FeeAsset:        feeAsset,
		RegistrationFee: envUint("REGISTRATION_FEE", 100),

		DisburseInterval: envDuration("DISBURSE_INTERVAL", 30*24*time.Hour),
		CheckCron:        checkCron,
		OutboxTopic:      outboxTopic,

		DispatchGasLimit:  envUint("DISPATCH_GAS_LIMIT", 200_000),
		AllowOutOfOrder:   envBool("DISPATCH_ALLOW_OUT_OF_ORDER", true),
		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint(name string, fallback uint64) uint64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
