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

package cauchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aicodix/cpf/internal/field"
)

// mulMatrix multiplies an a x b matrix by a b x c matrix over GF(field.P).
func mulMatrix(a, b [][]field.Elem) [][]field.Elem {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := make([][]field.Elem, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]field.Elem, cols)
		for j := 0; j < cols; j++ {
			var sum field.Elem
			for k := 0; k < inner; k++ {
				sum = field.Add(sum, field.Mul(a[i][k], b[k][j]))
			}
			out[i][j] = sum
		}
	}
	return out
}

func isIdentity(t require.TestingT, m [][]field.Elem) {
	for i := range m {
		for j := range m[i] {
			want := field.Elem(0)
			if i == j {
				want = 1
			}
			require.Equal(t, want, m[i][j], "identity mismatch at (%d,%d)", i, j)
		}
	}
}

func TestInvertProducesIdentityWhenComposed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(1, 64).Draw(t, "k")
		rows := distinctRowIDs(t, k)

		a, err := Build(rows, k)
		require.NoError(t, err)
		inv, err := Invert(rows)
		require.NoError(t, err)

		isIdentity(t, mulMatrix(inv, a))
		isIdentity(t, mulMatrix(a, inv))
	})
}

// distinctRowIDs draws k pairwise distinct row identifiers >= k (i.e.
// never colliding with a column index), as the erasure code's coded
// rows always do.
func distinctRowIDs(t *rapid.T, k int) []uint32 {
	seen := make(map[uint32]struct{}, k)
	rows := make([]uint32, 0, k)
	for len(rows) < k {
		r := rapid.Uint32Range(uint32(k), field.P-1).Draw(t, "row")
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		rows = append(rows, r)
	}
	return rows
}

func TestInvertRejectsDuplicateRows(t *testing.T) {
	_, err := Invert([]uint32{10, 11, 10})
	assert.ErrorIs(t, err, ErrDuplicateRow)
}

func TestEntryDivisionByZeroOnReservedIdentifier(t *testing.T) {
	_, err := Entry(3, 3)
	assert.ErrorIs(t, err, field.ErrDivisionByZero)
}

func TestInvertSmallExample(t *testing.T) {
	rows := []uint32{4, 5, 6}
	inv, err := Invert(rows)
	require.NoError(t, err)
	a, err := Build(rows, 3)
	require.NoError(t, err)
	isIdentity(t, mulMatrix(a, inv))
}
