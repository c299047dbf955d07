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

package driver

import (
	"github.com/aicodix/cpf/internal/chunk"
	"github.com/aicodix/cpf/internal/field"
)

// maxBlockValues is the largest V a single block can hold: the field
// has P elements, of which one (the displaced residue) costs a header
// slot to represent, so a block's usable slot capacity is P-2 per
// spec.md §3 (V in [1, p-2]).
const maxBlockValues = field.P - 2

// plan computes K (number of data blocks) and V (slots per block) for
// a source of the given size and a requested chunk byte size,
// following original_source/encode.cc's derivation exactly:
// availBytes = payload capacity of one chunk, rounded down to even;
// K = ceil(sourceSize / availBytes); V = ceil(sourceSize / (2*K)).
func plan(sourceSize, chunkSize int) (k, v int, err error) {
	availBytes := (chunkSize - HeaderOverhead) &^ 1
	if availBytes > maxBlockValues*2 {
		return 0, 0, ErrChunkTooLarge
	}
	if availBytes < 1 {
		return 0, 0, ErrChunkTooSmall
	}

	k = (sourceSize + availBytes - 1) / availBytes
	if k > MaxBlockCount {
		return 0, 0, ErrTooManyBlocks
	}
	if k < 1 {
		k = 1
	}

	v = chunk.BlockValues(sourceSize, k)
	return k, v, nil
}
