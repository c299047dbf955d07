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

// Package chunk implements the serialization and parsing of the CPF
// chunk container: a fixed 16-byte header followed by a payload of
// little-endian 16-bit field slots.
//
//	offset  size  field
//	0       3     magic "CPF"
//	3       2     splits (K-1), little-endian
//	5       2     identifier, little-endian
//	7       2     substitution index, little-endian
//	9       3     size_minus_one, little-endian 24-bit
//	12      4     crc32, little-endian
//	16      2V    payload: V little-endian 16-bit slots
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the 3-byte signature at the start of every chunk.
const Magic = "CPF"

// HeaderSize is the byte length of the fixed header preceding the payload.
const HeaderSize = 16

// MaxSplits is the exclusive upper bound on splits (K-1 for K up to
// 1024 data blocks, so at most 1023); a chunk with splits >= MaxSplits
// is rejected.
const MaxSplits = 1024

// ErrInvalidHeader covers every header-level malformation spec §7
// groups together: bad magic, out-of-range splits, or an identifier
// that collides with the reserved [0, splits] range.
var ErrInvalidHeader = errors.New("chunk: invalid header")

// Header is the parsed fixed portion of a chunk.
type Header struct {
	Splits            uint16 // K - 1
	Identifier        uint16
	SubstitutionIndex uint16
	SizeMinusOne      uint32 // 24-bit value: original byte count - 1
	CRC32             uint32
}

// K returns the number of data blocks the source was split into.
func (h Header) K() int { return int(h.Splits) + 1 }

// Size returns the original source byte count.
func (h Header) Size() int { return int(h.SizeMinusOne) + 1 }

// BlockValues returns V, the number of field elements per block, for
// a header whose Size and K are already known: V = ceil(Size / (2*K)).
func (h Header) BlockValues() int {
	return BlockValues(h.Size(), h.K())
}

// BlockValues computes V = ceil(size / (2*k)), the number of 16-bit
// slots each data or coded block holds for a source of the given size
// split into k blocks.
func BlockValues(size, k int) int {
	denom := 2 * k
	return (size + denom - 1) / denom
}

// Marshal encodes a header into its 16-byte wire form.
func Marshal(h Header) []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:3], Magic)
	binary.LittleEndian.PutUint16(b[3:5], h.Splits)
	binary.LittleEndian.PutUint16(b[5:7], h.Identifier)
	binary.LittleEndian.PutUint16(b[7:9], h.SubstitutionIndex)
	putUint24(b[9:12], h.SizeMinusOne)
	binary.LittleEndian.PutUint32(b[12:16], h.CRC32)
	return b
}

// Parse decodes and validates a header from its 16-byte wire form. It
// rejects bad magic, splits >= MaxSplits, and an identifier that does
// not exceed splits (the invariant separating coded-chunk identifiers
// from the reserved [0, splits] range). It does not validate the
// substitution index against V; callers that know V should additionally
// check SubstitutionIndex <= V.
func Parse(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: short header (%d bytes)", ErrInvalidHeader, len(b))
	}
	if string(b[0:3]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic", ErrInvalidHeader)
	}
	h := Header{
		Splits:            binary.LittleEndian.Uint16(b[3:5]),
		Identifier:        binary.LittleEndian.Uint16(b[5:7]),
		SubstitutionIndex: binary.LittleEndian.Uint16(b[7:9]),
		SizeMinusOne:      getUint24(b[9:12]),
		CRC32:             binary.LittleEndian.Uint32(b[12:16]),
	}
	if h.Splits >= MaxSplits {
		return Header{}, fmt.Errorf("%w: splits %d out of range", ErrInvalidHeader, h.Splits)
	}
	if int(h.Identifier) <= int(h.Splits) {
		return Header{}, fmt.Errorf("%w: identifier %d does not exceed splits %d", ErrInvalidHeader, h.Identifier, h.Splits)
	}
	return h, nil
}

// MarshalPayload packs V little-endian 16-bit slots into bytes.
func MarshalPayload(slots []uint16) []byte {
	b := make([]byte, 2*len(slots))
	for i, s := range slots {
		binary.LittleEndian.PutUint16(b[2*i:2*i+2], s)
	}
	return b
}

// ParsePayload unpacks a byte slice of length 2*v into v little-endian
// 16-bit slots.
func ParsePayload(b []byte, v int) ([]uint16, error) {
	if len(b) < 2*v {
		return nil, fmt.Errorf("chunk: payload too short: have %d bytes, need %d", len(b), 2*v)
	}
	slots := make([]uint16, v)
	for i := range slots {
		slots[i] = binary.LittleEndian.Uint16(b[2*i : 2*i+2])
	}
	return slots, nil
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func getUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
