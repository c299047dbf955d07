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

// admitted is one candidate chunk that passed header validation and
// was accepted into the decode set.
type admitted struct {
	header  chunk.Header
	payload []uint16
}

// Decode admits the first K coherent, distinct-identifier chunks out
// of candidates (each the raw byte content of one chunk file, in the
// order candidates were supplied), reconstructs the original bytes,
// and verifies their CRC-32 against the header value. Malformed or
// disagreeing candidates are skipped with a warning logged to logger
// rather than aborting the decode, as long as K admissible chunks
// remain among the rest (spec.md §9, Open Question a).
func Decode(candidates [][]byte, logger *log.Logger) ([]byte, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		first   *chunk.Header
		v       int
		admits  []admitted
		seenIDs = make(map[uint16]struct{})
	)

	for i, raw := range candidates {
		h, payload, err := admitCandidate(raw, first, v)
		if err != nil {
			logger.Warn("skipping chunk", "index", i, "reason", err)
			continue
		}
		if _, dup := seenIDs[h.Identifier]; dup {
			logger.Warn("skipping chunk", "index", i, "reason", ErrDuplicateIdentifier)
			continue
		}

		if first == nil {
			hCopy := h
			first = &hCopy
			v = h.BlockValues()
		}

		seenIDs[h.Identifier] = struct{}{}
		admits = append(admits, admitted{header: h, payload: payload})

		if len(admits) == first.K() {
			break
		}
	}

	if first == nil || len(admits) < first.K() {
		got := 0
		if first != nil {
			got = len(admits)
		}
		need := 0
		if first != nil {
			need = first.K()
		}
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientChunks, need, got)
	}

	identifiers := make([]uint32, len(admits))
	coded := make([][]uint16, len(admits))
	substitutions := make([]int, len(admits))
	for i, a := range admits {
		identifiers[i] = uint32(a.header.Identifier)
		coded[i] = a.payload
		substitutions[i] = codec.NoSubstitution
		if int(a.header.SubstitutionIndex) < v {
			substitutions[i] = int(a.header.SubstitutionIndex)
		}
	}

	decoded, err := codec.Decode(coded, substitutions, identifiers, v)
	if err != nil {
		return nil, err
	}

	out := flattenBlocks(decoded, first.Size())

	sum := crc.Checksum(out)
	if sum != first.CRC32 {
		return nil, fmt.Errorf("%w: have %08x, want %08x", ErrCrcMismatch, sum, first.CRC32)
	}

	return out, nil
}

// admitCandidate parses and validates a single candidate chunk's
// header and payload. first is the header of the first admitted
// chunk in this decode (nil if none yet); v is that chunk's V (ignored
// if first is nil).
func admitCandidate(raw []byte, first *chunk.Header, v int) (chunk.Header, []uint16, error) {
	if len(raw) < chunk.HeaderSize {
		return chunk.Header{}, nil, fmt.Errorf("short chunk (%d bytes)", len(raw))
	}
	h, err := chunk.Parse(raw[:chunk.HeaderSize])
	if err != nil {
		return chunk.Header{}, nil, err
	}

	hv := h.BlockValues()
	if hv < 1 || hv > maxBlockValues || int(h.SubstitutionIndex) > hv {
		return chunk.Header{}, nil, fmt.Errorf("%w: inconsistent V for this header", chunk.ErrInvalidHeader)
	}

	if first != nil {
		if h.K() != first.K() || h.Size() != first.Size() || h.CRC32 != first.CRC32 {
			return chunk.Header{}, nil, ErrInconsistentChunkSet
		}
		hv = v
	}

	payload, err := chunk.ParsePayload(raw[chunk.HeaderSize:], hv)
	if err != nil {
		return chunk.Header{}, nil, err
	}
	return h, payload, nil
}

// flattenBlocks concatenates k blocks of v uint16 slots each into a
// little-endian byte stream, truncated to originalSize bytes.
func flattenBlocks(blocks [][]uint16, originalSize int) []byte {
	out := make([]byte, 0, originalSize)
	for _, block := range blocks {
		for _, slot := range block {
			if len(out) >= originalSize {
				return out
			}
			out = append(out, byte(slot))
			if len(out) >= originalSize {
				return out
			}
			out = append(out, byte(slot>>8))
		}
	}
	return out
}
