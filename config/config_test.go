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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunefm/tunefm/model"
)

func TestLoadConfig_Default(t *testing.T) {
	viper.Reset()
	conf, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), conf)
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
interactions_path = "lastfm/user_artists.dat"
artists_path = "lastfm/artists.dat"

[recommend]
user_id = 7
top_n = 10

[als]
n_factors = 32
n_epochs = 20
reg = 0.1
`), 0644))
	conf, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "lastfm/user_artists.dat", conf.Data.InteractionsPath)
	assert.Equal(t, "lastfm/artists.dat", conf.Data.ArtistsPath)
	assert.Equal(t, 7, conf.Recommend.UserId)
	assert.Equal(t, 10, conf.Recommend.TopN)
	assert.Equal(t, 32, conf.ALS.NFactors)
	assert.Equal(t, 20, conf.ALS.NEpochs)
	assert.Equal(t, float32(0.1), conf.ALS.Reg)
	// unset keys keep the defaults
	assert.Equal(t, int64(42), conf.ALS.RandomState)
}

func TestLoadConfig_Env(t *testing.T) {
	viper.Reset()
	t.Setenv("TUNEFM_RECOMMEND_TOP_N", "25")
	conf, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, 25, conf.Recommend.TopN)
}

func TestLoadConfig_Invalid(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[recommend]
top_n = 0
`), 0644))
	_, err := LoadConfig(path)
	assert.True(t, errors.IsNotValid(err))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	viper.Reset()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "no_such_config.toml"))
	assert.Error(t, err)
}

func TestALSParams(t *testing.T) {
	conf := GetDefaultConfig()
	params := conf.ALSParams()
	assert.Equal(t, 64, params.GetInt(model.NFactors, 0))
	assert.Equal(t, 15, params.GetInt(model.NEpochs, 0))
	assert.Equal(t, float32(0.05), params.GetFloat32(model.Reg, 0))
	assert.Equal(t, float32(1), params.GetFloat32(model.Alpha, 0))
	assert.Equal(t, int64(42), params.GetInt64(model.RandomState, 0))
}
