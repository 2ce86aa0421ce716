package main

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	. "fmt"
	"github.com/p7r0x7/vainpath"
	"github.com/shangmi/sm3"
	. "github.com/spf13/pflag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime/pprof"
	"strings"
	"time"
	"unicode/utf8"
	"unsafe"
)

// Copyright © 2022 The ShangMi Authors. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2

var warnings, mismatches = 0, 0

func main() { os.Exit(program()) }

// help prints a usage menu and quietly exits if no non-flag arguments are given. To consistently
// correctly render this menu in most terminal windows, its content should be no wider than 80
// columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "sm3sum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Print or check SM3 (GB/T 32905-2016) checksums.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-bt] [--quiet|no-codes] [--strict|raw] -|PATH..."+n,
		spaces, "[-bt] [--quiet|no-codes] [--strict|raw] -s STRING..."+n,
		spaces, "[-c] [--quiet|strict] -|PATH..."+n+n+
			"Options:"+n)
	PrintDefaults()
	name = vainpath.Trim(origin, "…", 15)
	Fprint(os.Stderr, n+"Order of arguments placed after `", name, "` does not matter unless `--` is"+
		n+"specified, signaling the end of parsed flags. Long-form flag equivalents are"+n+
		"above. `-` is treated as a reference to ", os.Stdin.Name(), " on this platform."+n)
}

// This program is a command-line interface for sm3: It handles various flags and an unlimited
// number of arguments, processing files as required by the command-line operator.
func program() int {
	if pDebug {
		cf, err := os.Create("cpu.prof")
		_ = pprof.StartCPUProfile(cf)
		defer pprof.StopCPUProfile()

		bf, err := os.Create("block.prof")
		defer pprof.Lookup("block").WriteTo(bf, 0)

		af, err := os.Create("allocs.prof")
		defer pprof.Lookup("allocs").WriteTo(af, 0)
		if err != nil {
			panic(err)
		}
	}

	if pHelp || NArg() == 0 {
		help()
		return success
	}
	if pCheck {
		return check()
	}

	digest := sm3.New()
	for i, target := range Args() {
		if i > 0 {
			digest.Reset()
		}
		start, delta := time.Now(), ""

		if pString {
			/* hash.Hash does not implement (*Writer).WriteString. */
			if _, err := digest.Write(strToBytes(target)); err != nil {
				warn(err)
				continue
			}
		} else if target == "-" || target == os.Stdin.Name() {
			if _, err := io.Copy(digest, os.Stdin); err != nil {
				warn(err)
				continue
			}
			go os.Stdin.Close() /* STDIN should not be reused. */
		} else {
			if file, err := os.Open(target); err != nil {
				warn(err)
				continue
			} else {
				_, err = io.Copy(digest, file)
				go file.Close()
				if err != nil {
					warn(err)
					continue
				}
			}
		}
		sum := digest.Sum(nil)

		if pTime {
			d := time.Since(start)
			if d.Microseconds() > 99 {
				d = d.Truncate(10 * time.Microsecond)
			}
			delta = " (" + d.String() + ")"
		}

		if pRaw {
			os.Stdout.Write(sum)
			continue
		}
		if !pQuiet {
			Print(yell)
		}
		if pBase64 {
			enc := base64.NewEncoder(base64.StdEncoding, os.Stdout)
			enc.Write(sum)
			enc.Close()
		} else {
			hex.NewEncoder(os.Stdout).Write(sum)
		}

		if pQuiet {
			os.Stdout.WriteString(n)
		} else if pString {
			Print(zero, `  "`, target, `"`, zero, delta, n)
		} else if pNoCodes {
			Print(`  `, filepath.Clean(target), delta, n)
		} else {
			Print(zero, `  `, und, vainpath.Simplify(target), zero, delta, n)
		}
	}

	if !(pQuiet || pRaw) {
		if warnings == 1 {
			Fprint(os.Stderr, "1 ", purp, "target is a directory or is otherwise inaccessible.", zero, n)
		} else if warnings > 1 {
			Fprint(os.Stderr, warnings, " ", purp, "targets are directories or are otherwise inaccessible.", zero, n)
		}
	}
	if warnings > 0 {
		return failure
	}
	return success
}

// check verifies `<hex digest>  <path>` lines read from each target, in the manner of the
// traditional -c modes of sum tools; it reports per-line verdicts and counts mismatches.
func check() int {
	digest := sm3.New()
	for _, target := range Args() {
		var list io.ReadCloser
		if target == "-" || target == os.Stdin.Name() {
			list = os.Stdin
		} else if file, err := os.Open(target); err != nil {
			warn(err)
			continue
		} else {
			list = file
		}

		lines := bufio.NewScanner(list)
		for lines.Scan() {
			line := lines.Text()
			if line == "" {
				continue
			}
			cut := strings.IndexAny(line, " \t")
			if cut != sm3.Size*2 {
				warn(Errorf("malformed line %q", line))
				continue
			}
			want, err := hex.DecodeString(line[:cut])
			if err != nil {
				warn(err)
				continue
			}
			path := strings.TrimLeft(line[cut:], " \t*")

			digest.Reset()
			file, err := os.Open(path)
			if err != nil {
				warn(err)
				continue
			}
			_, err = io.Copy(digest, file)
			go file.Close()
			if err != nil {
				warn(err)
				continue
			}

			if string(digest.Sum(nil)) == string(want) {
				if !pQuiet {
					Print(path, ": OK"+n)
				}
			} else {
				mismatches++
				Print(path, ": ", purp, "FAILED", zero, n)
			}
		}
		if err := lines.Err(); err != nil {
			warn(err)
		}
		go list.Close()
	}

	if mismatches > 0 && !pQuiet {
		Fprint(os.Stderr, mismatches, " ", purp, "computed checksum(s) did NOT match.", zero, n)
	}
	if warnings > 0 || mismatches > 0 {
		return failure
	}
	return success
}

// strToBytes converts any string into a byte slices without allocating memory; as discussed in
// https://stackoverflow.com/a/69231355, this practice is safe so long as the underlying memory is
// not modified during its lifetime.
func strToBytes(s string) []byte {
	const MaxInt32 = 1<<31 - 1
	return (*[MaxInt32]byte)(unsafe.Pointer((*reflect.StringHeader)(
		unsafe.Pointer(&s)).Data))[: len(s)&MaxInt32 : len(s)&MaxInt32]
}

func warn(err ...interface{}) {
	if pStrict {
		panic(err)
	}
	warnings++
}
