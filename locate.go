// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "strings"

// normalizeName uppercasing happens inside hashString; normalizeName only
// canonicalizes the path separator, since MPQ archives are indexed with
// backslashes regardless of how callers spell the name.
func normalizeName(name string) string {
	return strings.ReplaceAll(name, "/", "\\")
}

// locate resolves filename to its hash table entry via two hash probes
// (spec §4.6). It returns (entry, true) on a match, or (zero, false) if no
// entry in the hash table matches both hashes.
//
// This is a linear scan, as specified: spec §4.6 notes that a production
// implementation may use the conventional MPQ open-addressing probe
// starting at hash(filename, TABLE_OFFSET) mod table size, but a linear
// scan is the algorithm the spec defines and tests against, and these
// archives are small enough that the O(n) cost never matters.
func locate(hashTable []HashEntry, filename string) (HashEntry, bool) {
	name := normalizeName(filename)
	a := hashString(name, hashRoleHashA)
	b := hashString(name, hashRoleHashB)

	for _, e := range hashTable {
		if e.HashA == a && e.HashB == b {
			return e, true
		}
	}

	return HashEntry{}, false
}
