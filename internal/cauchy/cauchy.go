// Copyright 2024 The CPF Authors.
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

// Package cauchy builds the Cauchy matrix used by the erasure code and
// inverts any square submatrix of it selected by a set of distinct row
// identifiers.
//
// The matrix is defined over two disjoint sets of field elements:
// columns y_j = j for j in [0, K), and rows x_r = r for any row
// identifier r not in [0, K). Entry (r, j) is 1/(r-j). Any square
// submatrix of a Cauchy matrix is invertible, which is exactly the
// property erasure coding needs: any K distinct rows yield an
// invertible K×K system. The matrix is never materialized in full;
// only the rows a particular encode/decode call actually needs are
// computed.
package cauchy

import (
	"errors"
	"fmt"

	"github.com/aicodix/cpf/internal/field"
)

// ErrSingularMatrix is the defensive assertion of spec §4.3: it should
// be unreachable when row identifiers are pairwise distinct and none
// of them coincides with a column index, since every square
// submatrix of a Cauchy matrix is invertible by construction.
var ErrSingularMatrix = errors.New("cauchy: singular matrix")

// ErrDuplicateRow is returned by Invert when two requested row
// identifiers are identical; a Cauchy submatrix is only guaranteed
// invertible when the selected rows are pairwise distinct.
var ErrDuplicateRow = errors.New("cauchy: duplicate row identifier")

// Entry returns the Cauchy matrix element at (row, col): the
// reciprocal of (row - col) in GF(field.P). It fails with
// field.ErrDivisionByZero if row == col, which happens only when a
// caller passes a row identifier that collides with a column index
// (i.e. a reserved identifier in [0, K)); the erasure code never does
// this for coded rows, since those always carry identifiers >= K.
func Entry(row, col uint32) (field.Elem, error) {
	diff := field.Sub(field.Elem(row%field.P), field.Elem(col%field.P))
	return field.Reciprocal(diff)
}

// Build returns the len(rows) x k Cauchy matrix whose i'th row is the
// row selected by rows[i], for columns 0..k-1.
func Build(rows []uint32, k int) ([][]field.Elem, error) {
	m := make([][]field.Elem, len(rows))
	for i, r := range rows {
		row := make([]field.Elem, k)
		for j := 0; j < k; j++ {
			e, err := Entry(r, uint32(j))
			if err != nil {
				return nil, fmt.Errorf("cauchy: entry(row=%d, col=%d): %w", r, j, err)
			}
			row[j] = e
		}
		m[i] = row
	}
	return m, nil
}

// Invert returns the inverse of the square Cauchy submatrix selected
// by the given (pairwise distinct) row identifiers, via Gauss-Jordan
// elimination over GF(field.P). The returned matrix is k x k where
// k == len(rows).
func Invert(rows []uint32) ([][]field.Elem, error) {
	k := len(rows)
	if err := checkDistinct(rows); err != nil {
		return nil, err
	}

	a, err := Build(rows, k)
	if err != nil {
		return nil, err
	}

	inv := identity(k)

	for col := 0; col < k; col++ {
		pivot := -1
		for r := col; r < k; r++ {
			if a[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingularMatrix
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		invPivot, err := field.Reciprocal(a[col][col])
		if err != nil {
			return nil, fmt.Errorf("cauchy: %w", ErrSingularMatrix)
		}
		scaleRow(a[col], invPivot)
		scaleRow(inv[col], invPivot)

		for r := 0; r < k; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			subtractScaledRow(a[r], a[col], factor)
			subtractScaledRow(inv[r], inv[col], factor)
		}
	}

	return inv, nil
}

func checkDistinct(rows []uint32) error {
	seen := make(map[uint32]struct{}, len(rows))
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateRow, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

func identity(k int) [][]field.Elem {
	m := make([][]field.Elem, k)
	for i := range m {
		m[i] = make([]field.Elem, k)
		m[i][i] = 1
	}
	return m
}

func scaleRow(row []field.Elem, factor field.Elem) {
	for i := range row {
		row[i] = field.Mul(row[i], factor)
	}
}

// subtractScaledRow computes dst -= factor*src, element-wise, mod P.
func subtractScaledRow(dst, src []field.Elem, factor field.Elem) {
	for i := range dst {
		dst[i] = field.Sub(dst[i], field.Mul(factor, src[i]))
	}
}
