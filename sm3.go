package sm3

import (
	"encoding/binary"
	"hash"
)

// Copyright © 2022 The ShangMi Authors. Licensed under the Apache-2.0 license.
// This file contains a Go-specific API implementing the standard hash.Hash interface.

// Size is the length of an SM3 digest in bytes.
const Size = 32

// BlockSize is the length of one message block in bytes.
const BlockSize = 64

const (
	init0 = 0x7380166f
	init1 = 0x4914b2b9
	init2 = 0x172442d7
	init3 = 0xda8a0600
	init4 = 0xa96f30bc
	init5 = 0x163138aa
	init6 = 0xe38dee4d
	init7 = 0xb0fb0e4e
)

type digest struct {
	h   [8]uint32
	x   [chunk]byte
	nx  int
	len uint64
}

// New returns a hash.Hash computing the SM3 checksum.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Reset() {
	d.h[0], d.h[1], d.h[2], d.h[3] = init0, init1, init2, init3
	d.h[4], d.h[5], d.h[6], d.h[7] = init4, init5, init6, init7
	d.nx, d.len = 0, 0
}

func (d *digest) Write(p []byte) (int, error) {
	count := len(p)
	d.len += uint64(count)

	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == chunk {
			compressBlocks(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= chunk {
		n := len(p) &^ (chunk - 1)
		compressBlocks(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}

	return count, nil
}

func (d *digest) Sum(in []byte) []byte {
	d0 := *d /* The running state survives Sum. */
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	length := d.len << 3 /* Length in bits. */

	var pad [chunk * 2]byte
	n := copy(pad[:], d.x[:d.nx])
	pad[n] = 0x80
	n = chunk
	if d.nx >= chunk-8 {
		n += chunk
	}
	binary.BigEndian.PutUint64(pad[n-8:n], length)
	compressBlocks(&d.h, pad[:n])

	var sum [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(sum[i*4:], v)
	}
	return sum
}

// Sum256 returns the SM3 checksum of msg.
func Sum256(msg []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(msg)
	return d.checkSum()
}
