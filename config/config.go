// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/trace"
)

var (
	ErrInvalidConfigFormat = errors.New("config must be JSON or YAML")
	ErrInvalidShareToken   = errors.New("invalid share token config")
	ErrMissingListenAddr   = errors.New("missing api listen address")
)

const MaxShareTokenDecimals = 18

type APIConfig struct {
	ListenAddress  string        `json:"listenAddress" yaml:"listenAddress"`
	ReadTimeout    time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout   time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	AllowedOrigins []string      `json:"allowedOrigins" yaml:"allowedOrigins"`
}

type Config struct {
	Exchange         exchange.Config `json:"exchange" yaml:"exchange"`
	LogLevel         string          `json:"logLevel" yaml:"logLevel"`
	LogFile          string          `json:"logFile" yaml:"logFile"` // empty logs to stdout only
	LogMaxSizeMB     int             `json:"logMaxSizeMB" yaml:"logMaxSizeMB"`
	LogMaxBackups    int             `json:"logMaxBackups" yaml:"logMaxBackups"`
	API              APIConfig       `json:"api" yaml:"api"`
	MetricsNamespace string          `json:"metricsNamespace" yaml:"metricsNamespace"`
	Trace            trace.Config    `json:"trace" yaml:"trace"`
}

func NewConfig() Config {
	return Config{
		Exchange:      exchange.NewConfig(),
		LogLevel:      logging.Info.LowerString(),
		LogMaxSizeMB:  64,
		LogMaxBackups: 4,
		API: APIConfig{
			ListenAddress:  "127.0.0.1:9650",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		MetricsNamespace: consts.Name,
		Trace: trace.Config{
			SampleRate: 1,
			Endpoint:   trace.DefaultEndpoint,
		},
	}
}

// Load reads a JSON or YAML file over the defaults and verifies the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	c := NewConfig()
	if err := Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c, c.Verify()
}

// Unmarshal decodes [b] as JSON if it is a JSON object and as YAML otherwise.
func Unmarshal(b []byte, v interface{}) error {
	switch {
	case isJSON(b):
		return json.Unmarshal(b, v)
	case isYAML(b):
		return yaml.Unmarshal(b, v)
	default:
		return ErrInvalidConfigFormat
	}
}

func (c Config) Verify() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.Exchange.Fee.Validate(); err != nil {
		return err
	}
	st := c.Exchange.ShareToken
	if st.Name == "" || st.Symbol == "" || st.Decimals > MaxShareTokenDecimals {
		return fmt.Errorf("%w: name=%q symbol=%q decimals=%d", ErrInvalidShareToken, st.Name, st.Symbol, st.Decimals)
	}
	if c.API.ListenAddress == "" {
		return ErrMissingListenAddr
	}
	return c.Trace.Verify()
}

func (c Config) TraceConfig() *trace.Config {
	tc := c.Trace
	tc.AppName = consts.Name
	tc.Version = consts.Version
	return &tc
}

func (c Config) Level() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
