// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "fmt"

// readFile implements spec §4.7: locate, validate, load, and decompress a
// named archive entry. It returns (data, true, nil) on success, (nil,
// false, nil) if the name is absent or the block is non-live or empty —
// absence is a successful result, never an error — and (nil, false, err)
// on any real failure.
func readFile(buf []byte, h *Header, hashTable []HashEntry, blockTable []BlockEntry, filename string, forceDecompress bool) ([]byte, bool, error) {
	entry, ok := locate(hashTable, filename)
	if !ok {
		return nil, false, nil
	}

	if uint64(entry.BlockTableIndex) >= uint64(len(blockTable)) {
		return nil, false, fmt.Errorf("mpq: %w: hash entry references block index %d beyond block table of %d entries", ErrCorruptPayload, entry.BlockTableIndex, len(blockTable))
	}
	block := blockTable[entry.BlockTableIndex]

	if !block.Exists() {
		return nil, false, nil
	}
	if block.ArchivedSize == 0 {
		return nil, false, nil
	}
	if block.Flags&(blockEncrypted|blockFixKey) != 0 {
		return nil, false, fmt.Errorf("mpq: %w: encrypted file", ErrUnsupportedFeature)
	}
	if block.Flags&blockImplode != 0 {
		return nil, false, fmt.Errorf("mpq: %w: PKWARE imploded payload", ErrUnsupportedFeature)
	}

	payloadStart := uint64(block.Offset) + uint64(h.Offset)
	payloadEnd := payloadStart + uint64(block.ArchivedSize)
	if payloadEnd > uint64(len(buf)) {
		return nil, false, fmt.Errorf("mpq: %w: file payload at offset %d size %d extends past end of buffer", ErrInvalidFormat, payloadStart, block.ArchivedSize)
	}
	payload := buf[payloadStart:payloadEnd]

	if block.Flags&blockSingleUnit != 0 {
		return readSingleUnit(payload, block, forceDecompress)
	}
	return readSectors(payload, h, block, forceDecompress)
}

func readSingleUnit(payload []byte, block BlockEntry, forceDecompress bool) ([]byte, bool, error) {
	if block.Flags&blockCompress != 0 && (forceDecompress || block.Size > block.ArchivedSize) {
		decoded, err := decompressSector(payload, block.Size)
		if err != nil {
			return nil, false, err
		}
		return decoded, true, nil
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}
