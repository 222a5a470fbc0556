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

// Package floats provides 32-bit float vector and matrix kernels used by the
// matrix factorization solver.
package floats

import (
	"github.com/chewxy/math32"
)

// Dot returns the dot product of two vectors.
func Dot(a, b []float32) (ret float32) {
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// MulConst multiplies a vector by a constant in place: a *= c.
func MulConst(a []float32, c float32) {
	for i := range a {
		a[i] *= c
	}
}

// MulConstTo multiplies a vector by a constant: dst = a * c.
func MulConstTo(a []float32, c float32, dst []float32) {
	for i := range a {
		dst[i] = a[i] * c
	}
}

// MulConstAdd multiplies a vector by a constant and adds it to another
// vector: dst += a * c.
func MulConstAdd(a []float32, c float32, dst []float32) {
	for i := range a {
		dst[i] += a[i] * c
	}
}

// SubTo subtracts two vectors: dst = a - b.
func SubTo(a, b, dst []float32) {
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

// Zero fills a vector with zeros.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}

// MatZero fills zeros in a matrix of 32-bit floats.
func MatZero(x [][]float32) {
	for i := range x {
		for j := range x[i] {
			x[i][j] = 0
		}
	}
}

// MatCopy copies a matrix of 32-bit floats: dst = src.
func MatCopy(src, dst [][]float32) {
	for i := range src {
		copy(dst[i], src[i])
	}
}

// SolveSPD solves the linear system a*x = b in place for a symmetric positive
// definite matrix a, via Cholesky decomposition. a and b are overwritten and
// b holds the solution on return. Returns false if a is not positive definite.
func SolveSPD(a [][]float32, b []float32) bool {
	n := len(b)
	// decompose a = l * l^T, storing l in the lower triangle of a
	for j := 0; j < n; j++ {
		d := a[j][j]
		for k := 0; k < j; k++ {
			d -= a[j][k] * a[j][k]
		}
		if d <= 0 || math32.IsNaN(d) {
			return false
		}
		a[j][j] = math32.Sqrt(d)
		for i := j + 1; i < n; i++ {
			s := a[i][j]
			for k := 0; k < j; k++ {
				s -= a[i][k] * a[j][k]
			}
			a[i][j] = s / a[j][j]
		}
	}
	// forward substitution: l * y = b
	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			b[i] -= a[i][k] * b[k]
		}
		b[i] /= a[i][i]
	}
	// backward substitution: l^T * x = y
	for i := n - 1; i >= 0; i-- {
		for k := i + 1; k < n; k++ {
			b[i] -= a[k][i] * b[k]
		}
		b[i] /= a[i][i]
	}
	return true
}
