package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/negdipay/negdi-payment-service/internal/domain"
)

type PaymentConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	PaymentDB  `yaml:"payment_db"`
	LogConfig  `yaml:"log_config"`
	Gateway    `yaml:"gateway"`
	KafkaService `yaml:"kafka-service"`
	RedisService `yaml:"redis-service"`
	MigrationsPath string `yaml:"migrations_path"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PaymentDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"payment-events"`
}

type RedisService struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Gateway holds per-environment NEGDi credential sets. Environment is a single
// provider-level flag: "test" or "production", never mixed mid-flow.
type Gateway struct {
	Environment    string     `yaml:"environment" env-default:"test"`
	TimeoutSeconds int        `yaml:"timeout_seconds" env-default:"30"`
	StatusPageURL  string     `yaml:"status_page_url"`
	ReturnBaseURL  string     `yaml:"return_base_url"`
	Test           GatewayEnv `yaml:"test"`
	Production     GatewayEnv `yaml:"production"`
}

type GatewayEnv struct {
	BaseURL           string `yaml:"base_url"`
	TerminalID        string `yaml:"terminal_id"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	SHARequestPhrase  string `yaml:"sha_request_phrase"`
	SHAResponsePhrase string `yaml:"sha_response_phrase"`
}

func (g Gateway) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Credentials selects the active environment's credential set. A missing
// required field is a configuration error, caught before any gateway call.
func (g Gateway) Credentials() (domain.GatewayCredentials, error) {
	env := g.Test
	if g.Environment == "production" {
		env = g.Production
	}
	creds := domain.GatewayCredentials{
		BaseURL:           env.BaseURL,
		TerminalID:        env.TerminalID,
		Username:          env.Username,
		Password:          env.Password,
		SHARequestPhrase:  env.SHARequestPhrase,
		SHAResponsePhrase: env.SHAResponsePhrase,
	}
	if err := creds.Validate(); err != nil {
		return domain.GatewayCredentials{}, err
	}
	return creds, nil
}

func MustLoad() *PaymentConfig {

	// Processing env config variable and file
	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
