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

package model

import (
	"reflect"

	"github.com/tunefm/tunefm/base/log"
	"go.uber.org/zap"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	Reg         ParamName = "Reg"         // regularization strength
	NEpochs     ParamName = "NEpochs"     // number of epochs
	NFactors    ParamName = "NFactors"    // number of factors
	RandomState ParamName = "RandomState" // random state (seed)
	InitMean    ParamName = "InitMean"    // mean of gaussian initial parameters
	InitStdDev  ParamName = "InitStdDev"  // standard deviation of gaussian initial parameters
	Alpha       ParamName = "Alpha"       // confidence scale for implicit feedback
)

// Params stores hyper-parameters for a model. It is a map between names and
// values. For example, hyper-parameters for ALS are given by:
//
//	model.Params{
//		model.NFactors: 64,
//		model.Reg:      0.05,
//		model.NEpochs:  15,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (params Params) Copy() Params {
	newParams := make(Params, len(params))
	for k, v := range params {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns defaultValue if not
// exists or type doesn't match.
func (params Params) GetInt(name ParamName, defaultValue int) int {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "int"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return defaultValue
}

// GetInt64 gets an int64 parameter by name. Returns defaultValue if not
// exists or type doesn't match. The type will be converted if given int.
func (params Params) GetInt64(name ParamName, defaultValue int64) int64 {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "int64"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return defaultValue
}

// GetFloat32 gets a float parameter by name. Returns defaultValue if not
// exists or type doesn't match. The type will be converted if given int or
// float64.
func (params Params) GetFloat32(name ParamName, defaultValue float32) float32 {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case float32:
			return val
		case float64:
			return float32(val)
		case int:
			return float32(val)
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "float32"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return defaultValue
}

// Overwrite merges params into the receiver, the arguments win on conflicts.
func (params Params) Overwrite(other Params) Params {
	merged := params.Copy()
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
