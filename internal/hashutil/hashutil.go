// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hashutil implements an order-sensitive, whitespace-insensitive
// content hash: a base-31 polynomial fold over a cryptographic per-line
// digest.
package hashutil

import (
	"crypto/sha1"
	"encoding/binary"
	"math/bits"
)

// modulus is the largest Mersenne prime that fits a uint64, a native
// 64-bit word standing in for the 127-bit modulus a bignum
// implementation would use (Go has no builtin 127-bit integer type).
const modulus = 1<<61 - 1

const prime = 31

// LineDigest reduces a line of source to a deterministic 64-bit digest.
// crypto/sha1 is stable across processes and platforms and fast enough
// to run per line.
func LineDigest(s string) uint64 {
	sum := sha1.Sum([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

// Combine folds a sequence of per-line digests into a single
// order-stable hash:
//
//	h = 1
//	for each digest d: h = (h*31 + d) mod M
func Combine(digests []uint64) uint64 {
	h := uint64(1)
	for _, d := range digests {
		hi, lo := bits.Mul64(h, prime)
		lo, carry := bits.Add64(lo, d, 0)
		h = bits.Rem64(hi+carry, lo, modulus)
	}
	return h
}

// IterHash hashes an arbitrary sequence of strings with the same
// combine rule, used for SourceContent.StrippedHash in addition to
// Chunk.ContentHash.
func IterHash(lines []string) uint64 {
	digests := make([]uint64, len(lines))
	for i, l := range lines {
		digests[i] = LineDigest(l)
	}
	return Combine(digests)
}
