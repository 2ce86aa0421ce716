package sm3

import (
	"bytes"
	"encoding/hex"
	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"strings"
	"testing"
)

// Copyright © 2022 The ShangMi Authors. Licensed under the Apache-2.0 license.
// Digest-level vectors and behavior tests, plus benchmarks against the usual
// suspects for a rough sense of where the scalar kernel lands.

var golden = []struct {
	in, out string
}{
	{"", "1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b"},
	{"abc", "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"},
	{strings.Repeat("abcd", 16),
		"debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732"},
}

func TestGolden(t *testing.T) {
	for _, v := range golden {
		sum := Sum256([]byte(v.in))
		if got := hex.EncodeToString(sum[:]); got != v.out {
			t.Errorf("Sum256(%q) = %s, want %s", v.in, got, v.out)
		}

		d := New()
		d.Write([]byte(v.in))
		if got := hex.EncodeToString(d.Sum(nil)); got != v.out {
			t.Errorf("New/Write/Sum(%q) = %s, want %s", v.in, got, v.out)
		}
	}
}

func TestGoldenMillion(t *testing.T) {
	const want = "c8aaf89429554029e231941a2acc0ad61ff2a5acd8fadd25847a3a732b3b02c3"
	sum := Sum256(bytes.Repeat([]byte("a"), 1e6))
	if got := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("Sum256(a*1e6) = %s, want %s", got, want)
	}
}

/* Writes split at awkward offsets must agree with the one-shot sum; this is
what shakes out carry-buffer bugs around the 64-byte boundary. */
func TestWriteChunking(t *testing.T) {
	msg := make([]byte, 1027)
	keystream(17, msg)
	want := Sum256(msg)

	for _, step := range []int{1, 3, 31, 63, 64, 65, 127, 500} {
		d := New()
		for rest := msg; len(rest) > 0; {
			n := step
			if n > len(rest) {
				n = len(rest)
			}
			d.Write(rest[:n])
			rest = rest[n:]
		}
		if !bytes.Equal(d.Sum(nil), want[:]) {
			t.Errorf("step %d: chunked sum diverged from one-shot sum", step)
		}
	}
}

func TestSumAppend(t *testing.T) {
	d := New()
	d.Write([]byte("abc"))

	prefix := []byte("prefix")
	sum := d.Sum(prefix)
	if !bytes.Equal(sum[:len(prefix)], prefix) {
		t.Fatal("Sum clobbered the bytes it should append to")
	}
	want := Sum256([]byte("abc"))
	if !bytes.Equal(sum[len(prefix):], want[:]) {
		t.Fatalf("Sum appended %x, want %x", sum[len(prefix):], want)
	}

	/* Sum must leave the running state untouched. */
	d.Write([]byte("def"))
	cont := Sum256([]byte("abcdef"))
	if !bytes.Equal(d.Sum(nil), cont[:]) {
		t.Fatal("Sum disturbed the running state")
	}
}

func TestReset(t *testing.T) {
	d := New()
	d.Write([]byte("garbage"))
	d.Reset()
	d.Write([]byte("abc"))
	want := Sum256([]byte("abc"))
	if !bytes.Equal(d.Sum(nil), want[:]) {
		t.Fatal("Reset did not restore the initial state")
	}
}

func TestSizes(t *testing.T) {
	d := New()
	if d.Size() != 32 || d.BlockSize() != 64 {
		t.Fatalf("Size() = %d, BlockSize() = %d", d.Size(), d.BlockSize())
	}
}

func BenchmarkSM3(b *testing.B) {
	d, msg := New(), make([]byte, 1<<10)
	b.SetBytes(1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Write(msg)
		d.Sum(nil)
	}
	b.StopTimer()
	d.Reset()
}

func BenchmarkSum256(b *testing.B) {
	msg := make([]byte, 1<<10)
	b.SetBytes(1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum256(msg)
	}
}

func BenchmarkCompress(b *testing.B) {
	blocks := make([][BlockSize]byte, 16)
	b.SetBytes(chunk * 16)
	b.ReportAllocs()
	b.ResetTimer()
	state := iv
	for i := 0; i < b.N; i++ {
		Compress(&state, blocks)
	}
}

func BenchmarkSHA256(b *testing.B) {
	msg := make([]byte, 1<<10)
	b.SetBytes(1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sha256.Sum256(msg)
	}
}

func BenchmarkBlake3(b *testing.B) {
	h, msg := blake3.New(), make([]byte, 1<<10)
	b.SetBytes(1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Write(msg)
		h.Sum(nil)
	}
	b.StopTimer()
	h.Reset()
}

func BenchmarkXXH3(b *testing.B) {
	h, msg := xxh3.New(), make([]byte, 1<<10)
	b.SetBytes(1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Write(msg)
		h.Sum(nil)
	}
	b.StopTimer()
	h.Reset()
}
