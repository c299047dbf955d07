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

package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func randomDataBlocks(r *rand.Rand, k, v int) [][]uint16 {
	blocks := make([][]uint16, k)
	for i := range blocks {
		blocks[i] = make([]uint16, v)
		for j := range blocks[i] {
			blocks[i][j] = uint16(r.Intn(65536))
		}
	}
	return blocks
}

func TestRoundTripAnyKOfMChunks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(1, 12).Draw(t, "k")
		v := rapid.IntRange(1, 64).Draw(t, "v")
		extra := rapid.IntRange(0, 5).Draw(t, "extra")
		m := k + extra

		seed := rapid.Int64().Draw(t, "seed")
		r := rand.New(rand.NewSource(seed))
		data := randomDataBlocks(r, k, v)

		type produced struct {
			ident        uint32
			coded        []uint16
			substitution int
		}
		chunks := make([]produced, 0, m)
		for i := 0; i < m; i++ {
			ident := uint32(k + i)
			coded, sub, err := Encode(data, ident, k, v)
			if err != nil {
				// Substitution overflow is permitted by spec to abort
				// this attempt; skip this (extraordinarily rare) draw.
				t.Skip("substitution overflow on this draw")
			}
			chunks = append(chunks, produced{ident: ident, coded: coded, substitution: sub})
		}

		// Pick any k of the m produced chunks.
		perm := r.Perm(m)[:k]

		idents := make([]uint32, k)
		coded := make([][]uint16, k)
		subs := make([]int, k)
		for i, idx := range perm {
			idents[i] = chunks[idx].ident
			coded[i] = chunks[idx].coded
			subs[i] = chunks[idx].substitution
		}

		decoded, err := Decode(coded, subs, idents, v)
		require.NoError(t, err)
		require.Equal(t, k, len(decoded))
		for b := 0; b < k; b++ {
			assert.Equal(t, data[b], decoded[b], "block %d mismatch", b)
		}
	})
}

func TestEncodeNeverEmitsDisplacedResidueOnDisk(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(1, 8).Draw(t, "k")
		v := rapid.IntRange(1, 32).Draw(t, "v")
		seed := rapid.Int64().Draw(t, "seed")
		r := rand.New(rand.NewSource(seed))
		data := randomDataBlocks(r, k, v)

		coded, sub, err := Encode(data, uint32(k), k, v)
		if err != nil {
			t.Skip("substitution overflow on this draw")
		}
		for pos, slot := range coded {
			if pos == sub {
				assert.Equal(t, uint16(0), slot, "substituted position must store 0")
			}
		}
	})
}

func TestDecodeRejectsNonDistinctIdentifiers(t *testing.T) {
	coded := [][]uint16{{1, 2}, {3, 4}}
	subs := []int{NoSubstitution, NoSubstitution}
	_, err := Decode(coded, subs, []uint32{5, 5}, 2)
	assert.Error(t, err)
}

func TestSmallFixedExample(t *testing.T) {
	// K=1: a single data block round-trips through a single coded
	// chunk trivially (identity-like row, but still through the full
	// Cauchy machinery since identifier=1 != column 0).
	data := [][]uint16{{0x41}}
	coded, sub, err := Encode(data, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, NoSubstitution, sub)

	decoded, err := Decode([][]uint16{coded}, []int{sub}, []uint32{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
