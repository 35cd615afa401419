// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "fmt"

// HashEntry is one record of the archive's hash table (spec §3).
type HashEntry struct {
	HashA           uint32
	HashB           uint32
	Locale          uint16
	Platform        uint16
	BlockTableIndex uint32
}

// BlockEntry is one record of the archive's block table (spec §3).
type BlockEntry struct {
	Offset       uint32
	ArchivedSize uint32
	Size         uint32
	Flags        uint32
}

// Block flags consumed by the core (spec §3).
const (
	blockImplode      uint32 = 0x00000100
	blockCompress     uint32 = 0x00000200
	blockEncrypted    uint32 = 0x00010000
	blockFixKey       uint32 = 0x00020000
	blockSingleUnit   uint32 = 0x01000000
	blockDeleteMarker uint32 = 0x02000000
	blockSectorCRC    uint32 = 0x04000000
	blockExists       uint32 = 0x80000000
)

// Exists reports whether the EXISTS flag is set.
func (b BlockEntry) Exists() bool { return b.Flags&blockExists != 0 }

// IsDeleteMarker reports whether the block is a patch tombstone: a live,
// zero-length entry that shadows the same name in a lower-priority archive
// of a patch chain rather than simply being absent from this one.
func (b BlockEntry) IsDeleteMarker() bool { return b.Flags&blockDeleteMarker != 0 }

// tableKind dispatches readTable to the hash or block table entry parser,
// modeled as a tagged variant per spec §9's design note.
type tableKind int

const (
	tableKindHash tableKind = iota
	tableKindBlock
)

// hashTableKey and blockTableKey are fixed per spec §4.5/§8: the decryption
// key for each table is the hash of its conventional name under the TABLE
// role. hashTableKey equals 3283040112 (0xC3AF3770), a documented test
// vector.
func hashTableKey() uint32  { return hashString("(hash table)", hashRoleTable) }
func blockTableKey() uint32 { return hashString("(block table)", hashRoleTable) }

// readTable decrypts and parses the hash or block table described by the
// header, per spec §4.5.
func readTable(buf []byte, h *Header, kind tableKind) (interface{}, error) {
	var tableOffset, entries uint32
	var key uint32

	switch kind {
	case tableKindHash:
		tableOffset, entries, key = h.HashTableOffset, h.HashTableEntries, hashTableKey()
	case tableKindBlock:
		tableOffset, entries, key = h.BlockTableOffset, h.BlockTableEntries, blockTableKey()
	default:
		return nil, fmt.Errorf("mpq: unknown table kind %d", kind)
	}

	base := uint64(tableOffset) + uint64(h.Offset)
	length := uint64(entries) * rawTableEntrySize
	end := base + length

	if end > uint64(len(buf)) {
		return nil, fmt.Errorf("mpq: %w: table of %d entries at offset %d extends past end of buffer", ErrInvalidFormat, entries, base)
	}

	decrypted, err := decryptBlock(buf[base:end], key)
	if err != nil {
		return nil, err
	}

	switch kind {
	case tableKindHash:
		out := make([]HashEntry, entries)
		for i := range out {
			var raw rawHashEntry
			rec := decrypted[i*rawTableEntrySize : (i+1)*rawTableEntrySize]
			if err := unpackBE(rec, &raw); err != nil {
				return nil, fmt.Errorf("mpq: %w: decode hash entry %d: %v", ErrInvalidFormat, i, err)
			}
			out[i] = HashEntry{
				HashA:           raw.HashA,
				HashB:           raw.HashB,
				Locale:          raw.Locale,
				Platform:        raw.Platform,
				BlockTableIndex: raw.BlockTableIndex,
			}
		}
		return out, nil

	default: // tableKindBlock
		out := make([]BlockEntry, entries)
		for i := range out {
			var raw rawBlockEntry
			rec := decrypted[i*rawTableEntrySize : (i+1)*rawTableEntrySize]
			if err := unpackBE(rec, &raw); err != nil {
				return nil, fmt.Errorf("mpq: %w: decode block entry %d: %v", ErrInvalidFormat, i, err)
			}
			out[i] = BlockEntry{
				Offset:       raw.Offset,
				ArchivedSize: raw.ArchivedSize,
				Size:         raw.Size,
				Flags:        raw.Flags,
			}
		}
		return out, nil
	}
}

func readHashTable(buf []byte, h *Header) ([]HashEntry, error) {
	v, err := readTable(buf, h, tableKindHash)
	if err != nil {
		return nil, err
	}
	return v.([]HashEntry), nil
}

func readBlockTable(buf []byte, h *Header) ([]BlockEntry, error) {
	v, err := readTable(buf, h, tableKindBlock)
	if err != nil {
		return nil, err
	}
	return v.([]BlockEntry), nil
}
