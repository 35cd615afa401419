// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"fmt"
	"os"
)

// Archive is a parsed, immutable MPQ archive (spec §3). The backing buffer
// is held for the Archive's whole lifetime; every value ReadFile/ExtractAll
// return is a freshly allocated copy, independent of that buffer, so an
// Archive may be read concurrently from any number of goroutines (spec §5).
type Archive struct {
	buf        []byte
	header     *Header
	hashTable  []HashEntry
	blockTable []BlockEntry
	files      []string // nil when the listfile was not loaded
}

// Options configures Open.
type Options struct {
	// WithListfile controls whether Open reads the (listfile) special
	// entry to populate Files(). Defaults to true.
	WithListfile bool
}

// DefaultOptions returns the defaults Open uses when no Option functions
// are supplied: listfile reading enabled.
func DefaultOptions() Options {
	return Options{WithListfile: true}
}

// Option mutates Options; see WithListfile.
type Option func(*Options)

// WithListfile overrides whether Open reads the (listfile) entry.
func WithListfile(enabled bool) Option {
	return func(o *Options) { o.WithListfile = enabled }
}

// Open parses an MPQ archive from source, which must be either a filesystem
// path (string) or an in-memory buffer ([]byte), per spec §4.8.
func Open(source interface{}, opts ...Option) (*Archive, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	buf, err := loadSource(source)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(buf)
	if err != nil {
		return nil, err
	}

	hashTable, err := readHashTable(buf, header)
	if err != nil {
		return nil, err
	}

	blockTable, err := readBlockTable(buf, header)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		buf:        buf,
		header:     header,
		hashTable:  hashTable,
		blockTable: blockTable,
	}

	if options.WithListfile {
		data, ok, err := readFile(a.buf, a.header, a.hashTable, a.blockTable, listfileName, false)
		if err != nil {
			return nil, fmt.Errorf("mpq: read listfile: %w", err)
		}
		if ok {
			a.files = parseListfile(data)
		}
	}

	return a, nil
}

func loadSource(source interface{}) ([]byte, error) {
	switch v := source.(type) {
	case []byte:
		return v, nil
	case string:
		data, err := os.ReadFile(v)
		if err != nil {
			return nil, fmt.Errorf("mpq: %w: %v", ErrIoError, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("mpq: Open: unsupported source type %T, want string or []byte", source)
	}
}

// Header returns the archive's parsed header.
func (a *Archive) Header() *Header { return a.header }

// HashTable returns the archive's decoded hash table, for inspection
// tooling; callers must not rely on entry order beyond the decoded layout.
func (a *Archive) HashTable() []HashEntry { return a.hashTable }

// BlockTable returns the archive's decoded block table, for inspection
// tooling.
func (a *Archive) BlockTable() []BlockEntry { return a.blockTable }

// ReadFile returns the decoded contents of filename, decompressing it if
// compressed (spec §4.7). forceDecompress forces decompression even when
// the stored size already matches the logical size (useful for recovering
// from a corrupt size field). It returns (nil, false, nil) if filename is
// not present, its block is non-live, or its block is empty — that is a
// successful result, not an error.
func (a *Archive) ReadFile(filename string, forceDecompress bool) ([]byte, bool, error) {
	return readFile(a.buf, a.header, a.hashTable, a.blockTable, filename, forceDecompress)
}

// Files returns the archive's file enumeration if the listfile was loaded
// at Open time, or (nil, false) otherwise.
func (a *Archive) Files() ([]string, bool) {
	if a.files == nil {
		return nil, false
	}
	return a.files, true
}

// ExtractedFile is one result of ExtractAll: a listfile entry's name paired
// with its decoded bytes, or a nil Data if the entry turned out to be
// absent from the archive despite being listed.
type ExtractedFile struct {
	Name string
	Data []byte
}

// ExtractAll decodes every entry named in the listfile, returning them in
// listfile order. It fails if the listfile was not loaded.
func (a *Archive) ExtractAll() ([]ExtractedFile, error) {
	files, ok := a.Files()
	if !ok {
		return nil, fmt.Errorf("mpq: ExtractAll: %w", ErrNoListfile)
	}

	out := make([]ExtractedFile, 0, len(files))
	for _, name := range files {
		data, found, err := a.ReadFile(name, false)
		if err != nil {
			return nil, fmt.Errorf("mpq: extract %q: %w", name, err)
		}
		if !found {
			out = append(out, ExtractedFile{Name: name})
			continue
		}
		out = append(out, ExtractedFile{Name: name, Data: data})
	}

	return out, nil
}

// HasFile reports whether filename resolves to a live block entry.
func (a *Archive) HasFile(filename string) bool {
	entry, ok := locate(a.hashTable, filename)
	if !ok {
		return false
	}
	if uint64(entry.BlockTableIndex) >= uint64(len(a.blockTable)) {
		return false
	}
	return a.blockTable[entry.BlockTableIndex].Exists()
}
