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
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/aicodix/cpf/internal/chunk"
	"github.com/aicodix/cpf/internal/codec"
	"github.com/aicodix/cpf/internal/crc"
)

// EncodeResult is the outcome of a successful Encode call.
type EncodeResult struct {
	// K is the number of data blocks the source was split into.
	K int
	// V is the number of field-element slots per block.
	V int
	// Chunks holds the M produced chunk files, each a complete
	// 16-byte-header-plus-payload byte stream ready to write to disk,
	// in emission order (identifiers K, K+1, ..., K+M-1).
	Chunks [][]byte
}

// Encode splits source into K data blocks sized to fit chunkSize bytes
// per chunk, and produces numChunks coded chunks. It fails with
// ErrEmptyInput, ErrInputTooLarge, ErrChunkTooSmall, ErrChunkTooLarge,
// ErrTooManyBlocks, or ErrNotEnoughChunksRequested before attempting
// any encoding; once underway, a SubstitutionOverflow on any
// individual chunk aborts the whole call rather than silently
// renumbering identifiers (spec.md §9, Open Question b).
func Encode(source []byte, chunkSize, numChunks int, logger *log.Logger) (EncodeResult, error) {
	if logger == nil {
		logger = log.Default()
	}

	if len(source) == 0 {
		return EncodeResult{}, ErrEmptyInput
	}
	if len(source) > MaxInputBytes {
		return EncodeResult{}, ErrInputTooLarge
	}

	k, v, err := plan(len(source), chunkSize)
	if err != nil {
		return EncodeResult{}, err
	}
	if numChunks < k {
		return EncodeResult{}, fmt.Errorf("%w: need at least %d, got %d", ErrNotEnoughChunksRequested, k, numChunks)
	}

	dataBlocks := splitIntoBlocks(source, k, v)
	sum := crc.Checksum(source)
	sizeMinusOne := uint32(len(source) - 1)
	splits := uint16(k - 1)

	chunks := make([][]byte, numChunks)
	for i := 0; i < numChunks; i++ {
		identifier := uint32(k + i)
		coded, substitution, err := codec.Encode(dataBlocks, identifier, k, v)
		if err != nil {
			return EncodeResult{}, fmt.Errorf("encoding chunk identifier %d: %w", identifier, err)
		}

		sub := uint16(v)
		if substitution != codec.NoSubstitution {
			sub = uint16(substitution)
		}

		h := chunk.Header{
			Splits:            splits,
			Identifier:        uint16(identifier),
			SubstitutionIndex: sub,
			SizeMinusOne:      sizeMinusOne,
			CRC32:             sum,
		}
		chunks[i] = append(chunk.Marshal(h), chunk.MarshalPayload(coded)...)
		logger.Debug("encoded chunk", "identifier", identifier, "substitution", substitution)
	}

	return EncodeResult{K: k, V: v, Chunks: chunks}, nil
}

// splitIntoBlocks partitions source into k blocks of v uint16 slots
// each, zero-padding the final block in byte space as spec.md §3
// requires.
func splitIntoBlocks(source []byte, k, v int) [][]uint16 {
	padded := make([]byte, 2*k*v)
	copy(padded, source)

	blocks := make([][]uint16, k)
	for b := 0; b < k; b++ {
		block := make([]uint16, v)
		base := b * v * 2
		for i := 0; i < v; i++ {
			block[i] = uint16(padded[base+2*i]) | uint16(padded[base+2*i+1])<<8
		}
		blocks[b] = block
	}
	return blocks
}
