// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "strings"

// listfileName is the conventional name of the special entry enumerating
// the archive's contents (spec §6).
const listfileName = "(listfile)"

// parseListfile splits a decoded (listfile) payload on CRLF and trims
// trailing blank entries, per spec §4.8/§6.
func parseListfile(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
