// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/sc2toolkit/mpq"
)

// runRepl provides an ad hoc name-lookup loop against an already-open
// archive: type a name, see whether it exists and its decoded size.
func runRepl(out, errOut io.Writer, a *mpq.Archive) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	if names, ok := a.Files(); ok {
		line.SetCompleter(func(prefix string) []string {
			var matches []string
			for _, n := range names {
				if strings.HasPrefix(strings.ToLower(n), strings.ToLower(prefix)) {
					matches = append(matches, n)
				}
			}
			return matches
		})
	}

	fmt.Fprintln(out, "mpqtool interactive mode - enter a file name, 'ls' to list, 'quit' to exit")

	for {
		input, err := line.Prompt("mpq> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(out, "bye")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case "quit", "exit":
			return nil
		case "ls":
			if err := printFiles(out, a); err != nil {
				fmt.Fprintf(errOut, "mpqtool: %v\n", err)
			}
			continue
		}

		data, found, err := a.ReadFile(input, false)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if !found {
			fmt.Fprintf(out, "%s: not found\n", input)
			continue
		}
		fmt.Fprintf(out, "%s: %d bytes\n", input, len(data))
	}
}
