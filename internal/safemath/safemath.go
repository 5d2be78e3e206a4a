// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

// Package safemath holds integer-conversion guards for compile-time
// integers. The compiler's one caller is RegisterJumpdest, which narrows
// JUMPDEST PC values with Uint64ToUint32.
package safemath

import (
	"math"

	"github.com/holiman/uint256"
)

// Uint64ToUint32 safely converts uint64 to uint32.
func Uint64ToUint32(v uint64) (uint32, bool) {
	if v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

// Uint256ToUint64 safely converts uint256.Int to uint64.
func Uint256ToUint64(v *uint256.Int) (uint64, bool) {
	if !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// Uint256ToUint32 safely converts uint256.Int to uint32, failing if the
// value doesn't fit.
func Uint256ToUint32(v *uint256.Int) (uint32, bool) {
	u64, ok := Uint256ToUint64(v)
	if !ok {
		return 0, false
	}
	return Uint64ToUint32(u64)
}

// AddUint32 adds two uint32 offsets, reporting overflow rather than
// wrapping silently.
func AddUint32(a, b uint32) (uint32, bool) {
	sum := uint64(a) + uint64(b)
	return Uint64ToUint32(sum)
}
