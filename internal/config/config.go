package config

import (
	"fmt"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`

	// Admin: a single fixed trusted identity.
	AdminID       int64  `env:"ADMIN_ID,required"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`

	// Earnings
	MinWithdraw   float64 `env:"MIN_WITHDRAW" envDefault:"5"`
	DailyLimit    float64 `env:"DAILY_LIMIT" envDefault:"10"`
	ReferralBonus float64 `env:"REFERRAL_BONUS" envDefault:"0.5"`
	Currency      string  `env:"CURRENCY" envDefault:"$"`

	// Referral bonus vs the referrer's own daily cap. Off preserves the
	// legacy behavior of crediting past the cap.
	ReferralCountsTowardCap bool `env:"REFERRAL_COUNTS_TOWARD_CAP" envDefault:"false"`

	// Timer re-entry policy: restart or resume.
	TimerPolicy string `env:"TIMER_POLICY" envDefault:"restart"`

	// Files
	DataFile    string `env:"DATA_FILE" envDefault:"data.json"`
	CatalogFile string `env:"CATALOG_FILE" envDefault:"config.json"`

	// Dashboard server
	Port int `env:"PORT" envDefault:"5000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if !domain.TimerPolicy(cfg.TimerPolicy).Valid() {
		return nil, fmt.Errorf("invalid TIMER_POLICY %q", cfg.TimerPolicy)
	}
	if cfg.MinWithdraw < 0 || cfg.DailyLimit <= 0 || cfg.ReferralBonus < 0 {
		return nil, fmt.Errorf("earning limits must be non-negative (daily limit positive)")
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	return telegramID == c.AdminID
}

func (c *Config) MinWithdrawAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.MinWithdraw)
}

func (c *Config) DailyLimitAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.DailyLimit)
}

func (c *Config) ReferralBonusAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.ReferralBonus)
}

func (c *Config) Policy() domain.TimerPolicy {
	return domain.TimerPolicy(c.TimerPolicy)
}
