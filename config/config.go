// Copyright 2026 tunefm Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the tunefm configuration from a TOML file with
// environment variable overrides.
package config

import (
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"github.com/tunefm/tunefm/model"
)

// Config is the configuration for the recommendation pipeline.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	ALS       ALSConfig       `mapstructure:"als"`
}

// DataConfig holds the paths of the two input tables.
type DataConfig struct {
	InteractionsPath string `mapstructure:"interactions_path" validate:"required"`
	ArtistsPath      string `mapstructure:"artists_path" validate:"required"`
}

// RecommendConfig selects the target user and the size of the ranked list.
type RecommendConfig struct {
	UserId int `mapstructure:"user_id" validate:"gte=0"`
	TopN   int `mapstructure:"top_n" validate:"gt=0"`
	Jobs   int `mapstructure:"jobs" validate:"gt=0"`
}

// ALSConfig holds the hyper-parameters of the factorization model. The
// defaults reproduce the original pipeline: 64 factors, regularization 0.05,
// 15 epochs, seed 42.
type ALSConfig struct {
	NFactors    int     `mapstructure:"n_factors" validate:"gt=0"`
	NEpochs     int     `mapstructure:"n_epochs" validate:"gt=0"`
	Reg         float32 `mapstructure:"reg" validate:"gt=0"`
	Alpha       float32 `mapstructure:"alpha" validate:"gte=0"`
	InitStdDev  float32 `mapstructure:"init_std_dev" validate:"gt=0"`
	RandomState int64   `mapstructure:"random_state"`
	Verbose     int     `mapstructure:"verbose" validate:"gt=0"`
}

func setDefault() {
	viper.SetDefault("data.interactions_path", "data/user_artists.dat")
	viper.SetDefault("data.artists_path", "data/artists.dat")
	viper.SetDefault("recommend.user_id", 2)
	viper.SetDefault("recommend.top_n", 5)
	viper.SetDefault("recommend.jobs", runtime.NumCPU())
	viper.SetDefault("als.n_factors", 64)
	viper.SetDefault("als.n_epochs", 15)
	viper.SetDefault("als.reg", 0.05)
	viper.SetDefault("als.alpha", 1.0)
	viper.SetDefault("als.init_std_dev", 0.1)
	viper.SetDefault("als.random_state", 42)
	viper.SetDefault("als.verbose", 5)
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			InteractionsPath: "data/user_artists.dat",
			ArtistsPath:      "data/artists.dat",
		},
		Recommend: RecommendConfig{
			UserId: 2,
			TopN:   5,
			Jobs:   runtime.NumCPU(),
		},
		ALS: ALSConfig{
			NFactors:    64,
			NEpochs:     15,
			Reg:         0.05,
			Alpha:       1.0,
			InitStdDev:  0.1,
			RandomState: 42,
			Verbose:     5,
		},
	}
}

// LoadConfig loads the configuration from a TOML file. An empty path loads
// the defaults. Environment variables prefixed with TUNEFM_ override file
// values, for example TUNEFM_RECOMMEND_TOP_N=10.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Annotate(err, "read config file")
		}
	}
	viper.SetEnvPrefix("tunefm")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the configuration against the struct tags.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}

// ALSParams converts the ALS section into model hyper-parameters.
func (config *Config) ALSParams() model.Params {
	return model.Params{
		model.NFactors:    config.ALS.NFactors,
		model.NEpochs:     config.ALS.NEpochs,
		model.Reg:         config.ALS.Reg,
		model.Alpha:       config.ALS.Alpha,
		model.InitStdDev:  config.ALS.InitStdDev,
		model.RandomState: config.ALS.RandomState,
	}
}
