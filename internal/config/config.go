package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type Logger struct {
	Level string `yaml:"level"`
	Sink  string `yaml:"sink"`
}

type Telegram struct {
	Token        string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	BotUsername  string `yaml:"bot_username" env:"BOT_USERNAME"`
	AdminID      int64  `yaml:"admin_id" env:"ADMIN_ID"`
	AdminGroupID int64  `yaml:"admin_group_id" env:"ADMIN_GROUP_ID"`
}

type API struct {
	Addr       string `yaml:"addr"`
	AdminToken string `yaml:"admin_token" env:"ADMIN_API_TOKEN"`
}

// Business - бизнес-правила салона и магазина. Значения по умолчанию
// совпадают с действующими правилами и задаются в NewConfig.
type Business struct {
	Timezone               string            `yaml:"timezone"`
	FreeDeliveryThreshold  int               `yaml:"free_delivery_threshold"`
	DeliveryCost           int               `yaml:"delivery_cost"`
	BonusPercent           int               `yaml:"bonus_percent"`
	BonusThreshold         int               `yaml:"bonus_threshold"`
	MaxBonusPaymentPercent int               `yaml:"max_bonus_payment_percent"`
	SignupReferralBonus    int               `yaml:"signup_referral_bonus"`
	ReviewLinks            map[string]string `yaml:"review_links"`
}

type Reminders struct {
	AdminNudgeMinutes  int `yaml:"admin_nudge_minutes"`
	CheckPeriodMinutes int `yaml:"check_period_minutes"`
}

type Feedback struct {
	Enabled            bool `yaml:"enabled"`
	DelayDays          int  `yaml:"delay_days"`
	CheckPeriodMinutes int  `yaml:"check_period_minutes"`
}

type Payments struct {
	BaseURL   string `yaml:"base_url"`
	ReturnURL string `yaml:"return_url"`
}

type AppConfig struct {
	Logger    Logger    `yaml:"log"`
	Telegram  Telegram  `yaml:"telegram"`
	Database  Database  `yaml:"database"`
	Redis     Redis     `yaml:"redis"`
	API       API       `yaml:"api"`
	Business  Business  `yaml:"business"`
	Reminders Reminders `yaml:"reminders"`
	Feedback  Feedback  `yaml:"feedback"`
	Payments  Payments  `yaml:"payments"`
}

// NewConfig читает YAML-конфигурацию и накладывает поверх нее переменные
// окружения (токены и пароли в файле хранить не обязательно).
func NewConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	appConfig := defaultConfig()
	if err := yaml.Unmarshal(data, appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := env.Parse(appConfig); err != nil {
		return nil, fmt.Errorf("failed to parse env overrides: %w", err)
	}

	if appConfig.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is not set (config or TELEGRAM_BOT_TOKEN)")
	}

	return appConfig, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Logger: Logger{Level: "info", Sink: "stdout"},
		Database: Database{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Redis: Redis{Addr: "localhost:6379"},
		API:   API{Addr: ":8081"},
		Business: Business{
			Timezone:               "Asia/Yekaterinburg",
			FreeDeliveryThreshold:  3000,
			DeliveryCost:           300,
			BonusPercent:           5,
			BonusThreshold:         3000,
			MaxBonusPaymentPercent: 50,
			SignupReferralBonus:    500,
		},
		Reminders: Reminders{
			AdminNudgeMinutes:  30,
			CheckPeriodMinutes: 5,
		},
		Feedback: Feedback{
			Enabled:            true,
			DelayDays:          1,
			CheckPeriodMinutes: 60,
		},
	}
}
