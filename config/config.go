// Package config provides configuration management for the webpay gateway client.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrConfigurationMissing is returned when a required gateway setting is empty.
var ErrConfigurationMissing = errors.New("configuration missing")

// Gateway holds the merchant identity and key material locations for GP webpay.
type Gateway struct {
	PayUrl              string `yaml:"pay_url" env:"GP_PAY_URL" env-default:"https://test.3dsecure.gpwebpay.com/pgw/order.do"`
	MerchantNumber      string `yaml:"merchant_number" env:"GP_MERCHANT_NUMBER" env-default:""`
	MerchantKeyPath     string `yaml:"merchant_key_path" env:"GP_MERCHANT_KEY_PATH" env-default:""`
	MerchantKeyPassword string `yaml:"merchant_key_password" env:"GP_MERCHANT_KEY_PASSWORD" env-default:""`
	CertificatePath     string `yaml:"certificate_path" env:"GP_CERTIFICATE_PATH" env-default:""`
}

// Validate reports every required gateway value that is absent.
// The key password is optional: unencrypted keys have none.
func (g *Gateway) Validate() error {
	var missing []string
	if g.PayUrl == "" {
		missing = append(missing, "pay_url")
	}
	if g.MerchantNumber == "" {
		missing = append(missing, "merchant_number")
	}
	if g.MerchantKeyPath == "" {
		missing = append(missing, "merchant_key_path")
	}
	if g.CertificatePath == "" {
		missing = append(missing, "certificate_path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Config holds all configuration for the webpay service.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	Listen  struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5100"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Gateway Gateway `yaml:"gateway"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// It only loads the config once; later calls return the same instance.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = readConfig(path)
	})
	if instance == nil && err == nil {
		err = fmt.Errorf("config not loaded")
	}
	return instance, err
}

func readConfig(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	return conf, nil
}
