package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/postgres"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/reconcile"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/settlement"
)

type Config struct {
	Debug      bool              `env:"APP_DEBUG"`
	HTTPAddr   string            `env:"HTTP_ADDR, default=:8080"`
	DB         postgres.Config   `env:",prefix=DB_"`
	Settlement settlement.Config `env:",prefix=SETTLEMENT_"`
	Reconcile  reconcile.Config  `env:",prefix=RECONCILE_"`
}

func ParseEnv(ctx context.Context) (Config, error) {
	cfg := Config{}
	return cfg, envconfig.Process(ctx, &cfg)
}
