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

import "errors"

// MaxInputBytes is the largest source size the chunk format's 24-bit
// size_minus_one field can represent (spec.md §9, Open Question c).
const MaxInputBytes = 16 * 1024 * 1024

// HeaderOverhead is the fixed 16-byte chunk header size (magic,
// splits, identifier, substitution index, size, crc32).
const HeaderOverhead = 16

// MaxBlockCount is the largest number of data blocks (K) supported.
const MaxBlockCount = 1024

var (
	// ErrEmptyInput is returned when the source to encode has zero length.
	ErrEmptyInput = errors.New("driver: input is empty")

	// ErrInputTooLarge is returned when the source exceeds MaxInputBytes.
	ErrInputTooLarge = errors.New("driver: input too large")

	// ErrChunkTooSmall is returned when the requested chunk size leaves
	// no room for a payload. A chunk size that forces more than
	// MaxBlockCount data blocks yields ErrTooManyBlocks instead.
	ErrChunkTooSmall = errors.New("driver: chunk size too small")

	// ErrChunkTooLarge is returned when the requested chunk size's
	// payload capacity exceeds what a single block can hold
	// (field.P-2 slots). This supplements spec.md §7's enumerated
	// error kinds; see SPEC_FULL.md's SUPPLEMENTED FEATURES section.
	ErrChunkTooLarge = errors.New("driver: chunk size too large")

	// ErrTooManyBlocks is returned when the source would need more
	// than MaxBlockCount data blocks at the requested chunk size.
	ErrTooManyBlocks = errors.New("driver: too many data blocks required")

	// ErrNotEnoughChunksRequested is returned when fewer output chunks
	// are requested than the number of data blocks K; at least K
	// chunks are required for any hope of later reconstruction.
	ErrNotEnoughChunksRequested = errors.New("driver: fewer chunks requested than data blocks")

	// ErrInsufficientChunks is returned by Decode when the candidate
	// chunk list is exhausted before K admissible chunks were found.
	ErrInsufficientChunks = errors.New("driver: insufficient chunks to decode")

	// ErrInconsistentChunkSet is returned when an otherwise
	// well-formed chunk disagrees with the first admitted chunk on K,
	// size, or CRC-32.
	ErrInconsistentChunkSet = errors.New("driver: inconsistent chunk set")

	// ErrDuplicateIdentifier is the reason Decode logs when it skips a
	// candidate whose identifier matches an already admitted chunk; it
	// does not abort the decode.
	ErrDuplicateIdentifier = errors.New("driver: duplicate chunk identifier")

	// ErrCrcMismatch is returned when the reconstructed bytes' CRC-32
	// does not match the value recorded in the chunk headers.
	ErrCrcMismatch = errors.New("driver: CRC-32 mismatch")
)
