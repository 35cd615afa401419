// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/sc2toolkit/mpq"
)

// pad right-pads s to width display columns, using go-runewidth rather than
// len(s) so a listfile name containing wide or combining runes still lines
// up in the fixed-width table output.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + spaces(width-w)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func printHeader(w io.Writer, h *mpq.Header) {
	fmt.Fprintln(w, "Header:")
	fmt.Fprintf(w, "  %-24s %d\n", "headerSize", h.HeaderSize)
	fmt.Fprintf(w, "  %-24s %d\n", "archiveSize", h.ArchiveSize)
	fmt.Fprintf(w, "  %-24s %d\n", "formatVersion", h.FormatVersion)
	fmt.Fprintf(w, "  %-24s %d\n", "sectorSizeShift", h.SectorSizeShift)
	fmt.Fprintf(w, "  %-24s %d\n", "hashTableOffset", h.HashTableOffset)
	fmt.Fprintf(w, "  %-24s %d\n", "blockTableOffset", h.BlockTableOffset)
	fmt.Fprintf(w, "  %-24s %d\n", "hashTableEntries", h.HashTableEntries)
	fmt.Fprintf(w, "  %-24s %d\n", "blockTableEntries", h.BlockTableEntries)
	fmt.Fprintf(w, "  %-24s %d\n", "offset", h.Offset)
	if h.FormatVersion == 1 {
		fmt.Fprintf(w, "  %-24s %d\n", "extendedBlockTableOffset", h.ExtendedBlockTableOffset)
		fmt.Fprintf(w, "  %-24s %d\n", "hashTableOffsetHigh", h.HashTableOffsetHigh)
		fmt.Fprintf(w, "  %-24s %d\n", "blockTableOffsetHigh", h.BlockTableOffsetHigh)
	}
}

func printHashTable(w io.Writer, a *mpq.Archive) {
	fmt.Fprintln(w, "Hash table:")
	header := fmt.Sprintf("  %s %s %s %s %s", pad("idx", 6), pad("hashA", 10), pad("hashB", 10), pad("locale", 8), pad("block", 6))
	fmt.Fprintln(w, header)
	for i, e := range a.HashTable() {
		fmt.Fprintf(w, "  %s 0x%08X 0x%08X %s %s\n",
			pad(fmt.Sprintf("%d", i), 6), e.HashA, e.HashB, pad(fmt.Sprintf("%d", e.Locale), 8), pad(fmt.Sprintf("%d", e.BlockTableIndex), 6))
	}
}

func printBlockTable(w io.Writer, a *mpq.Archive) {
	fmt.Fprintln(w, "Block table:")
	header := fmt.Sprintf("  %s %s %s %s %s", pad("idx", 6), pad("offset", 10), pad("archived", 10), pad("size", 10), pad("flags", 10))
	fmt.Fprintln(w, header)
	for i, b := range a.BlockTable() {
		fmt.Fprintf(w, "  %s %s %s %s 0x%08X\n",
			pad(fmt.Sprintf("%d", i), 6), pad(fmt.Sprintf("%d", b.Offset), 10), pad(fmt.Sprintf("%d", b.ArchivedSize), 10), pad(fmt.Sprintf("%d", b.Size), 10), b.Flags)
	}
}

func printFiles(w io.Writer, a *mpq.Archive) error {
	files, ok := a.Files()
	if !ok {
		return mpq.ErrNoListfile
	}
	for _, name := range files {
		fmt.Fprintln(w, name)
	}
	return nil
}
