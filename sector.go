// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"
	"fmt"
)

// readSectors reassembles a multi-sector payload (spec §4.7): a leading
// little-endian offset table delimits each sector, the last one or two
// entries (two when SECTOR_CRC is set) mark the end of data rather than a
// real sector, and each sector is independently decompressed.
func readSectors(payload []byte, h *Header, block BlockEntry, forceDecompress bool) ([]byte, bool, error) {
	sectorSize := h.sectorSize()

	// spec §9: +1 even when Size is an exact multiple of sectorSize — the
	// trailing offset still delimits a (zero-length) terminal sector.
	numSectors := block.Size/sectorSize + 1
	hasSectorCRC := block.Flags&blockSectorCRC != 0
	if hasSectorCRC {
		numSectors++
	}

	offsetTableLen := uint64(numSectors+1) * 4
	if offsetTableLen > uint64(len(payload)) {
		return nil, false, fmt.Errorf("mpq: %w: sector offset table of %d entries extends past payload of %d bytes", ErrCorruptPayload, numSectors+1, len(payload))
	}

	positions := make([]uint32, numSectors+1)
	for i := range positions {
		positions[i] = binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
	}

	terminalEntries := 1
	if hasSectorCRC {
		terminalEntries = 2
	}
	effectiveSectors := len(positions) - terminalEntries
	if effectiveSectors < 0 {
		return nil, false, fmt.Errorf("mpq: %w: sector offset table too short for SECTOR_CRC layout", ErrCorruptPayload)
	}

	out := make([]byte, 0, block.Size)
	remaining := uint64(block.Size)

	for i := 0; i < effectiveSectors; i++ {
		start, end := uint64(positions[i]), uint64(positions[i+1])
		if end < start || end > uint64(len(payload)) {
			return nil, false, fmt.Errorf("mpq: %w: sector %d offsets [%d,%d) out of range for payload of %d bytes", ErrCorruptPayload, i, start, end, len(payload))
		}
		raw := payload[start:end]

		var decoded []byte
		if block.Flags&blockCompress != 0 && (forceDecompress || remaining > uint64(len(raw))) {
			expected := uint64(sectorSize)
			if expected > remaining {
				expected = remaining
			}
			var err error
			decoded, err = decompressSector(raw, uint32(expected))
			if err != nil {
				return nil, false, fmt.Errorf("mpq: decompress sector %d: %w", i, err)
			}
		} else {
			decoded = raw
		}

		if uint64(len(decoded)) > remaining {
			return nil, false, fmt.Errorf("mpq: %w: sector %d decoded to %d bytes with only %d remaining", ErrCorruptPayload, i, len(decoded), remaining)
		}

		out = append(out, decoded...)
		remaining -= uint64(len(decoded))
	}

	return out, true, nil
}
