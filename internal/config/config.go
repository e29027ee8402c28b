// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "amaru.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultNetwork         = "testnet"
	DefaultShutdownTimeout = "30s"
)

type Config struct {
	DataDir              string `yaml:"dataDir"                                 split_words:"true"`
	Network              string `yaml:"network"`
	HorizonURL           string `yaml:"horizonUrl"           envconfig:"AMARU_HORIZON_URL"`
	FriendbotURL         string `yaml:"friendbotUrl"         envconfig:"AMARU_FRIENDBOT_URL"`
	ShutdownTimeout      string `yaml:"shutdownTimeout"                         split_words:"true"`
	SyncInterval         string `yaml:"syncInterval"                            split_words:"true"`
	ConnectivityInterval string `yaml:"connectivityInterval"                    split_words:"true"`
	MetricsPort          uint   `yaml:"metricsPort"                             split_words:"true"`
}

var globalConfig = &Config{
	Network:         DefaultNetwork,
	ShutdownTimeout: DefaultShutdownTimeout,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	if err := envconfig.Process("amaru", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if globalConfig.Network == "" {
		globalConfig.Network = DefaultNetwork
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
