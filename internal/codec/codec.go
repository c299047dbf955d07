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

// Package codec implements the encode and decode transforms of the
// Cauchy prime-field erasure code: mapping K data blocks to a coded
// block for an arbitrary row identifier, and inverting any K coded
// blocks with distinct identifiers back to the original data blocks.
package codec

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/aicodix/cpf/internal/cauchy"
	"github.com/aicodix/cpf/internal/field"
)

// ErrSubstitutionOverflow is returned by Encode when a coded block
// would need to record more than one displaced residue (the field
// value 65536 appearing at more than one position). At most one
// substitution per block is representable; the caller (the Driver)
// must treat this encode attempt as failed.
var ErrSubstitutionOverflow = errors.New("codec: more than one position requires substitution")

// NoSubstitution is the sentinel substitution index meaning "no
// position in this block held the displaced residue".
const NoSubstitution = -1

// parallelThreshold is the minimum block length (in field elements)
// below which the per-column loop runs on a single goroutine; for
// short blocks the synchronization overhead is not worth it.
const parallelThreshold = 4096

// Encode computes the coded block for the given row identifier from k
// data blocks of length v, by applying the Cauchy matrix row selected
// by identifier to the K data blocks at each column position.
//
// dataBlocks[j][pos] holds the raw slot value of data block j at
// position pos (data blocks never contain the displaced residue,
// since they are built directly from source bytes, each of which fits
// in 16 bits).
//
// It returns the coded block's V slot values and the substitution
// index: NoSubstitution if no position produced the undisplayable
// residue 65536, or the unique position that did (whose slot holds 0
// in its place). ErrSubstitutionOverflow is returned, with results
// discarded, if two or more positions would need substitution.
func Encode(dataBlocks [][]uint16, identifier uint32, k, v int) (coded []uint16, substitution int, err error) {
	row, err := buildRow(identifier, k)
	if err != nil {
		return nil, 0, err
	}

	coded = make([]uint16, v)
	substitution = NoSubstitution
	var mu sync.Mutex
	overflow := false

	work := func(pos int) {
		var sum field.Elem
		for j := 0; j < k; j++ {
			sum = field.Add(sum, field.Mul(row[j], field.Elem(dataBlocks[j][pos])))
		}
		if slot, ok := field.ToSlot(sum); ok {
			coded[pos] = slot
			return
		}
		mu.Lock()
		if substitution != NoSubstitution {
			overflow = true
		} else {
			substitution = pos
		}
		mu.Unlock()
	}

	runColumns(v, work)

	if overflow {
		return nil, 0, ErrSubstitutionOverflow
	}
	return coded, substitution, nil
}

// Decode reconstructs the K original data blocks from K coded blocks
// with pairwise distinct identifiers. codedBlocks[i] and
// substitutions[i] correspond to identifiers[i]. The returned slice is
// always in original source order: decoded[b] is the data block with
// reserved identifier b (0 <= b < k), regardless of the order
// identifiers/codedBlocks were given in, since the inverse matrix's
// row index is exactly that reserved identifier.
func Decode(codedBlocks [][]uint16, substitutions []int, identifiers []uint32, v int) (decoded [][]uint16, err error) {
	k := len(identifiers)
	if len(codedBlocks) != k || len(substitutions) != k {
		return nil, fmt.Errorf("codec: mismatched input lengths: %d identifiers, %d blocks, %d substitutions", k, len(codedBlocks), len(substitutions))
	}

	inv, err := cauchy.Invert(identifiers)
	if err != nil {
		return nil, err
	}

	values := make([][]field.Elem, k)
	for i := range codedBlocks {
		row := make([]field.Elem, v)
		for pos := 0; pos < v; pos++ {
			row[pos] = field.FromSlot(codedBlocks[i][pos])
		}
		if substitutions[i] >= 0 && substitutions[i] < v {
			row[substitutions[i]] = field.P - 1
		}
		values[i] = row
	}

	decoded = make([][]uint16, k)
	for i := range decoded {
		decoded[i] = make([]uint16, v)
	}

	work := func(pos int) {
		for out := 0; out < k; out++ {
			var sum field.Elem
			for j := 0; j < k; j++ {
				sum = field.Add(sum, field.Mul(inv[out][j], values[j][pos]))
			}
			// Original data never contains the displaced residue, so
			// sum is guaranteed representable in a 16-bit slot here.
			slot, _ := field.ToSlot(sum)
			decoded[out][pos] = slot
		}
	}

	runColumns(v, work)
	return decoded, nil
}

func buildRow(identifier uint32, k int) ([]field.Elem, error) {
	row := make([]field.Elem, k)
	for j := 0; j < k; j++ {
		e, err := cauchy.Entry(identifier, uint32(j))
		if err != nil {
			return nil, fmt.Errorf("codec: building row for identifier %d: %w", identifier, err)
		}
		row[j] = e
	}
	return row, nil
}

// runColumns calls work(pos) for every pos in [0, v), sequentially for
// small v and across a bounded worker pool for large v — the §5
// column-independence property this spec explicitly allows an
// implementation to exploit.
func runColumns(v int, work func(pos int)) {
	if v < parallelThreshold {
		for pos := 0; pos < v; pos++ {
			work(pos)
		}
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > v {
		workers = v
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (v + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= v {
			break
		}
		if end > v {
			end = v
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for pos := start; pos < end; pos++ {
				work(pos)
			}
		}(start, end)
	}
	wg.Wait()
}
