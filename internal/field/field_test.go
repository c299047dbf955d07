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

package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func elem(t *rapid.T, label string) Elem {
	return Elem(rapid.Uint32Range(0, P-1).Draw(t, label))
}

func TestFieldLawsCommutativeAssociativeDistributive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elem(t, "a")
		b := elem(t, "b")
		c := elem(t, "c")

		assert.Equal(t, Add(a, b), Add(b, a), "addition should commute")
		assert.Equal(t, Add(Add(a, b), c), Add(a, Add(b, c)), "addition should associate")
		assert.Equal(t, Mul(a, b), Mul(b, a), "multiplication should commute")
		assert.Equal(t, Mul(Mul(a, b), c), Mul(a, Mul(b, c)), "multiplication should associate")
		assert.Equal(t, Mul(a, Add(b, c)), Add(Mul(a, b), Mul(a, c)), "multiplication should distribute over addition")
	})
}

func TestReciprocalIsMultiplicativeInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Elem(rapid.Uint32Range(1, P-1).Draw(t, "a"))
		r, err := Reciprocal(a)
		require.NoError(t, err)
		assert.Equal(t, Elem(1), Mul(a, r))
	})
}

func TestReciprocalOfZeroFails(t *testing.T) {
	_, err := Reciprocal(0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestSubIsAddInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := elem(t, "a")
		b := elem(t, "b")
		assert.Equal(t, a, Add(Sub(a, b), b))
	})
}

func TestSlotRoundTripsEverythingButTheDisplacedResidue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := elem(t, "e")
		slot, ok := ToSlot(e)
		if e == P-1 {
			assert.False(t, ok)
			return
		}
		require.True(t, ok)
		assert.Equal(t, e, FromSlot(slot))
	})
}

func TestToSlotRejectsOnlyTheDisplacedResidue(t *testing.T) {
	_, ok := ToSlot(P - 1)
	assert.False(t, ok)
	for _, e := range []Elem{0, 1, 65535} {
		_, ok := ToSlot(e)
		assert.True(t, ok)
	}
}
