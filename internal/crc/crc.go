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

// Package crc implements the specific CRC-32 variant chunk headers
// carry: reflected polynomial constant 0x8F6E37A0, initial register 0,
// final XOR 0, bytes processed least-significant-bit first. This is a
// thin collaborator outside the erasure-coding core (spec.md §1); it
// exists only so encode and decode compute the exact same checksum
// over the original bytes.
//
// hash/crc32's table-driven Update is reused directly: its table
// format already expects the reflected polynomial this variant uses.
// Update itself is not a raw fold, though — like the standard CRC-32
// it implicitly complements its input and output (crc = ^crc; ...;
// return ^crc), which bakes in the all-ones init/xor-out of the
// classic algorithm. Complementing both sides of the call cancels
// that out and leaves the raw zero-init, zero-xor-out fold this
// variant needs.
package crc

import "hash/crc32"

// Polynomial is the reflected polynomial constant the chunk format's
// CRC-32 variant uses.
const Polynomial = 0x8F6E37A0

var table = crc32.MakeTable(Polynomial)

// New returns a fresh accumulator with the variant's initial register
// value (0).
func New() uint32 { return 0 }

// Update folds p into the running checksum crc and returns the new
// value. Called repeatedly, Update(Update(New(), a), b) ==
// Checksum(append(a, b...)).
func Update(crc uint32, p []byte) uint32 {
	return ^crc32.Update(^crc, table, p)
}

// Checksum computes the variant's CRC-32 over p in one call.
func Checksum(p []byte) uint32 {
	return Update(New(), p)
}
