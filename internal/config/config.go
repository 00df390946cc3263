package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config carries every threshold, amount and endpoint the faucet needs.
// It is loaded once in main and injected into constructors; there is no
// process-wide config singleton.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Auth struct {
		SecretKey string `mapstructure:"secretKey"`
	} `mapstructure:"auth"`

	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`

	Ethereum struct {
		Endpoint string `mapstructure:"endpoint"`
		// Minimum balance (wei) required to be eligible for a claim.
		MinBalance string `mapstructure:"minBalance"`
	} `mapstructure:"ethereum"`

	Near struct {
		Endpoint         string `mapstructure:"endpoint"`
		Account          string `mapstructure:"account"`
		KeyFile          string `mapstructure:"keyFile"`
		LinkDropContract string `mapstructure:"linkDropContract"`
		// Amount (yoctoNEAR) attached to each linkdrop claim.
		TokensToAttach string `mapstructure:"tokensToAttach"`
		ClaimGas       uint64 `mapstructure:"claimGas"`
		// Reward (NEAR) paid per successful referral.
		AffiliateReward  string `mapstructure:"affiliateReward"`
		GeneratorAccount string `mapstructure:"generatorAccount"`
	} `mapstructure:"near"`

	Explorer struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"explorer"`

	RequestTimeout time.Duration `mapstructure:"requestTimeout"`

	minBalance      *big.Int
	tokensToAttach  *big.Int
	affiliateReward decimal.Decimal
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetDefault("requestTimeout", 30*time.Second)
	v.SetDefault("near.claimGas", uint64(300000000000000))

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.parse()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) parse() error {
	var ok bool

	c.minBalance, ok = new(big.Int).SetString(c.Ethereum.MinBalance, 10)
	if !ok {
		return fmt.Errorf("Invalid ethereum.minBalance '%s'", c.Ethereum.MinBalance)
	}

	c.tokensToAttach, ok = new(big.Int).SetString(c.Near.TokensToAttach, 10)
	if !ok {
		return fmt.Errorf("Invalid near.tokensToAttach '%s'", c.Near.TokensToAttach)
	}

	var err error
	c.affiliateReward, err = decimal.NewFromString(c.Near.AffiliateReward)
	if err != nil {
		return fmt.Errorf("Invalid near.affiliateReward '%s': %w", c.Near.AffiliateReward, err)
	}

	return nil
}

func (c *Config) MinBalance() *big.Int {
	return c.minBalance
}

func (c *Config) TokensToAttach() *big.Int {
	return c.tokensToAttach
}

func (c *Config) AffiliateReward() decimal.Decimal {
	return c.affiliateReward
}
