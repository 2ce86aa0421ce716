//go:build windows

package main

import (
	. "golang.org/x/sys/windows"
	"os"
)

// Copyright © 2022 The ShangMi Authors. Licensed under the Apache-2.0 license.

/* Formatting codes only render on consoles with virtual-terminal processing;
turn it on where possible and fall back to bare output where it isn't. */
func init() {
	for _, fd := range [...]uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		var mode uint32
		if GetConsoleMode(Handle(fd), &mode) != nil {
			pNoCodesDefault = true
			break
		}
		if mode&ENABLE_VIRTUAL_TERMINAL_PROCESSING == 0 &&
			SetConsoleMode(Handle(fd), mode|ENABLE_VIRTUAL_TERMINAL_PROCESSING) != nil {
			pNoCodesDefault = true
			break
		}
	}
	pNoCodes = pNoCodesDefault
}
