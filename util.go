// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

// pad is cache-line padding placed between independently-written
// atomic fields to prevent false sharing.
type pad [64]byte

// padShort pads a struct back out to a cache line after an 8-byte
// field, for slot types that pack a sequence/cycle counter alongside
// the payload.
type padShort [64 - 8]byte

// isPow2 reports whether n is a power of two and at least 2.
func isPow2(n int) bool {
	return n >= 2 && n&(n-1) == 0
}
