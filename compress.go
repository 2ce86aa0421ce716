package sm3

import "math/bits"

// Copyright © 2022 The ShangMi Authors. Licensed under the Apache-2.0 license.
// This file is the compression kernel of the Go implementation of the SM3
// cryptographic hashing algorithm as standardized in GB/T 32905-2016.

const chunk = 64

/* rotT holds the 64 prerotated round constants: ROTL32(0x79cc4519, j) for rounds
0 through 15 and ROTL32(0x7a879d8a, j mod 32) for rounds 16 through 63. Rolling
them ahead of time keeps the constant fetch in each round to a single load. */
var rotT = [64]uint32{
	0x79cc4519, 0xf3988a32, 0xe7311465, 0xce6228cb,
	0x9cc45197, 0x3988a32f, 0x7311465e, 0xe6228cbc,
	0xcc451979, 0x988a32f3, 0x311465e7, 0x6228cbce,
	0xc451979c, 0x88a32f39, 0x11465e73, 0x228cbce6,
	0x9d8a7a87, 0x3b14f50f, 0x7629ea1e, 0xec53d43c,
	0xd8a7a879, 0xb14f50f3, 0x629ea1e7, 0xc53d43ce,
	0x8a7a879d, 0x14f50f3b, 0x29ea1e76, 0x53d43cec,
	0xa7a879d8, 0x4f50f3b1, 0x9ea1e762, 0x3d43cec5,
	0x7a879d8a, 0xf50f3b14, 0xea1e7629, 0xd43cec53,
	0xa879d8a7, 0x50f3b14f, 0xa1e7629e, 0x43cec53d,
	0x879d8a7a, 0x0f3b14f5, 0x1e7629ea, 0x3cec53d4,
	0x79d8a7a8, 0xf3b14f50, 0xe7629ea1, 0xcec53d43,
	0x9d8a7a87, 0x3b14f50f, 0x7629ea1e, 0xec53d43c,
	0xd8a7a879, 0xb14f50f3, 0x629ea1e7, 0xc53d43ce,
	0x8a7a879d, 0x14f50f3b, 0x29ea1e76, 0x53d43cec,
	0xa7a879d8, 0x4f50f3b1, 0x9ea1e762, 0x3d43cec5,
}

/* The boolean functions below are shared by the round loops and the test
suite; the compiler inlines them, so splitting them out costs nothing. */

func ff0(x, y, z uint32) uint32 { return x ^ y ^ z }

func gg0(x, y, z uint32) uint32 { return x ^ y ^ z }

func ff1(x, y, z uint32) uint32 { return (x & y) | (x & z) | (y & z) }

func gg1(x, y, z uint32) uint32 { return ((y ^ z) & x) ^ z }

func p0(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 9) ^ bits.RotateLeft32(x, 17) }

func p1(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 15) ^ bits.RotateLeft32(x, 23) }

// Compress folds blocks into state in order, 64 rounds per block. Later blocks
// depend on the state left behind by earlier ones, so a multi-block call is
// exactly equivalent to threading the state through single-block calls; there
// is no valid parallel schedule within one state. The caller must not touch
// state for the duration of the call.
func Compress(state *[8]uint32, blocks [][BlockSize]byte) {
	for i := range blocks {
		compressBlocks(state, blocks[i][:])
	}
}

/* compressBlocks consumes every whole 64-byte block at the front of p; len(p)
is expected to be a multiple of 64. Working registers stay in locals until all
blocks are folded, which keeps the hot loop free of pointer traffic. */
func compressBlocks(state *[8]uint32, p []byte) {
	var w [68]uint32
	s0, s1, s2, s3 := state[0], state[1], state[2], state[3]
	s4, s5, s6, s7 := state[4], state[5], state[6], state[7]

	for len(p) >= chunk {
		for i := 0; i < 16; i++ {
			j := i * 4
			w[i] = uint32(p[j])<<24 | uint32(p[j+1])<<16 | uint32(p[j+2])<<8 | uint32(p[j+3])
		}
		for i := 16; i < 68; i++ {
			w[i] = p1(w[i-16]^w[i-9]^bits.RotateLeft32(w[i-3], 15)) ^
				bits.RotateLeft32(w[i-13], 7) ^ w[i-6]
		}

		a, b, c, d := s0, s1, s2, s3
		e, f, g, h := s4, s5, s6, s7
		for i := 0; i < 16; i++ {
			x := bits.RotateLeft32(a, 12)
			ss1 := bits.RotateLeft32(x+e+rotT[i], 7)
			tt1 := ff0(a, b, c) + d + (ss1 ^ x) + (w[i] ^ w[i+4])
			tt2 := gg0(e, f, g) + h + ss1 + w[i]

			d, c, b, a = c, bits.RotateLeft32(b, 9), a, tt1
			h, g, f, e = g, bits.RotateLeft32(f, 19), e, p0(tt2)
		}
		for i := 16; i < 64; i++ {
			x := bits.RotateLeft32(a, 12)
			ss1 := bits.RotateLeft32(x+e+rotT[i], 7)
			tt1 := ff1(a, b, c) + d + (ss1 ^ x) + (w[i] ^ w[i+4])
			tt2 := gg1(e, f, g) + h + ss1 + w[i]

			d, c, b, a = c, bits.RotateLeft32(b, 9), a, tt1
			h, g, f, e = g, bits.RotateLeft32(f, 19), e, p0(tt2)
		}

		s0 ^= a
		s1 ^= b
		s2 ^= c
		s3 ^= d
		s4 ^= e
		s5 ^= f
		s6 ^= g
		s7 ^= h
		p = p[chunk:]
	}

	state[0], state[1], state[2], state[3] = s0, s1, s2, s3
	state[4], state[5], state[6], state[7] = s4, s5, s6, s7
}
