// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// mpqtool inspects and extracts MPQ archives from the command line.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/sc2toolkit/mpq"
)

type options struct {
	help          bool
	printHeaders  bool
	printHash     bool
	printBlock    bool
	skipListfile  bool
	listFiles     bool
	extract       bool
	outDir        string
	manifestPath  string
	interactive   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	opts, archivePath, code := parseFlags(args, errOut)
	if code >= 0 {
		return code
	}

	if opts.help {
		printUsage(out)
		return 0
	}

	if archivePath == "" {
		fmt.Fprintln(errOut, "mpqtool: missing archive path")
		printUsage(errOut)
		return 1
	}

	archive, err := mpq.Open(archivePath, mpq.WithListfile(!opts.skipListfile))
	if err != nil {
		fmt.Fprintf(errOut, "mpqtool: open %s: %v\n", archivePath, err)
		return 1
	}

	if opts.printHeaders {
		printHeader(out, archive.Header())
	}
	if opts.printHash {
		printHashTable(out, archive)
	}
	if opts.printBlock {
		printBlockTable(out, archive)
	}
	if opts.listFiles {
		if err := printFiles(out, archive); err != nil {
			fmt.Fprintf(errOut, "mpqtool: %v\n", err)
			return 1
		}
	}
	if opts.extract {
		if err := extractArchive(out, archive, archivePath, opts.outDir, opts.manifestPath); err != nil {
			fmt.Fprintf(errOut, "mpqtool: extract: %v\n", err)
			return 1
		}
	}
	if opts.interactive {
		if err := runRepl(out, errOut, archive); err != nil {
			fmt.Fprintf(errOut, "mpqtool: %v\n", err)
			return 1
		}
	}

	return 0
}

// parseFlags returns a negative code to mean "keep going"; any
// non-negative code means the caller should return it immediately because
// pflag reported a parse error or its own help request. -h itself comes back
// as -1 with opts.help set, and run prints the usage.
func parseFlags(args []string, errOut *os.File) (options, string, int) {
	fs := flag.NewFlagSet("mpqtool", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var opts options
	fs.BoolVarP(&opts.help, "help", "h", false, "show usage")
	fs.BoolVarP(&opts.printHeaders, "headers", "I", false, "print the archive header")
	fs.BoolVarP(&opts.printHash, "hash-table", "H", false, "print the hash table")
	fs.BoolVarP(&opts.printBlock, "block-table", "b", false, "print the block table")
	fs.BoolVarP(&opts.skipListfile, "skip-listfile", "s", false, "don't read (listfile) on open")
	fs.BoolVarP(&opts.listFiles, "list", "t", false, "list files named in the listfile")
	fs.BoolVarP(&opts.extract, "extract", "x", false, "extract files to disk")
	fs.StringVar(&opts.outDir, "out", "", "extraction directory (default: archive basename)")
	fs.StringVar(&opts.manifestPath, "manifest", "", "hujson file restricting -x to listed names")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive name lookup mode")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return opts, "", 0
		}
		return opts, "", 2
	}

	if opts.help {
		return opts, "", -1
	}

	rest := fs.Args()
	var path string
	if len(rest) > 0 {
		path = rest[0]
	}

	return opts, path, -1
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, `mpqtool - inspect and extract MPQ archives

Usage: mpqtool [flags] <archive>

Flags:
  -h, --help            show this help
  -I, --headers         print the archive header
  -H, --hash-table      print the hash table
  -b, --block-table     print the block table
  -s, --skip-listfile   don't read (listfile) on open
  -t, --list            list files named in the listfile
  -x, --extract         extract files to disk
      --out DIR         extraction directory (default: archive basename)
      --manifest FILE   hujson file restricting -x to listed names
  -i, --interactive     interactive name lookup mode`)
}
