// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import "fmt"

// Header is the parsed MPQ archive header (spec §3). Offset is the absolute
// byte offset within the backing buffer at which the MPQ header itself
// begins; it is zero unless the archive carries a user-data prefix.
type Header struct {
	Magic            [4]byte
	HeaderSize       uint32
	ArchiveSize      uint32
	FormatVersion    uint16
	SectorSizeShift  uint16
	HashTableOffset  uint32
	BlockTableOffset uint32
	HashTableEntries uint32
	BlockTableEntries uint32

	// Present only when FormatVersion == 1.
	ExtendedBlockTableOffset int64
	HashTableOffsetHigh      int16
	BlockTableOffsetHigh     int16

	// Offset is the absolute position of this header within the backing
	// buffer; zero unless UserDataHeader is non-nil.
	Offset uint32

	// UserDataHeader is set when the archive begins with an "MPQ\x1b"
	// shunt block rather than the header directly.
	UserDataHeader *UserDataHeader
}

// UserDataHeader is the optional shunt block that precedes some archives
// (spec §3).
type UserDataHeader struct {
	Magic              [4]byte
	UserDataSize       uint32
	MpqHeaderOffset    uint32
	UserDataHeaderSize uint32
	Content            []byte
}

var (
	magicMPQHeader   = [4]byte{'M', 'P', 'Q', 0x1A}
	magicMPQUserData = [4]byte{'M', 'P', 'Q', 0x1B}
)

// sectorSize returns the sector size in bytes derived from the header's
// shift field (spec §4.7: 512 << sectorSizeShift).
func (h *Header) sectorSize() uint32 {
	return 512 << h.SectorSizeShift
}

// readHeader classifies the archive and parses its header, implementing the
// state machine from spec §4.4: plain "MPQ\x1a" archives begin at offset 0;
// "MPQ\x1b"-prefixed archives carry a UserDataHeader pointing at the real
// header elsewhere in the buffer.
func readHeader(buf []byte) (*Header, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("mpq: %w: archive too small to contain a magic", ErrInvalidFormat)
	}

	var magic [4]byte
	copy(magic[:], buf[:4])

	h := &Header{}

	switch magic {
	case magicMPQHeader:
		h.Offset = 0

	case magicMPQUserData:
		ud, err := readUserDataHeader(buf)
		if err != nil {
			return nil, err
		}
		h.UserDataHeader = ud
		h.Offset = ud.MpqHeaderOffset

		if uint64(h.Offset)+4 > uint64(len(buf)) {
			return nil, fmt.Errorf("mpq: %w: user data header offset %d out of range", ErrInvalidFormat, h.Offset)
		}
		var innerMagic [4]byte
		copy(innerMagic[:], buf[h.Offset:h.Offset+4])
		if innerMagic != magicMPQHeader {
			return nil, fmt.Errorf("mpq: %w: user data does not point at an MPQ header", ErrInvalidFormat)
		}

	default:
		return nil, fmt.Errorf("mpq: %w: unrecognized magic %q", ErrInvalidFormat, magic[:])
	}

	if err := parseHeaderBody(buf, h); err != nil {
		return nil, err
	}

	return h, nil
}

func readUserDataHeader(buf []byte) (*UserDataHeader, error) {
	if len(buf) < rawUserDataHeaderSize {
		return nil, fmt.Errorf("mpq: %w: buffer too small for user data header", ErrInvalidFormat)
	}

	var raw rawUserDataHeader
	if err := unpackLE(buf[:rawUserDataHeaderSize], &raw); err != nil {
		return nil, fmt.Errorf("mpq: %w: decode user data header: %v", ErrInvalidFormat, err)
	}

	end := uint64(rawUserDataHeaderSize) + uint64(raw.UserDataHeaderSize)
	if end > uint64(len(buf)) {
		return nil, fmt.Errorf("mpq: %w: user data content extends past end of buffer", ErrInvalidFormat)
	}

	content := make([]byte, raw.UserDataHeaderSize)
	copy(content, buf[rawUserDataHeaderSize:end])

	return &UserDataHeader{
		Magic:              raw.Magic,
		UserDataSize:       raw.UserDataSize,
		MpqHeaderOffset:    raw.MpqHeaderOffset,
		UserDataHeaderSize: raw.UserDataHeaderSize,
		Content:            content,
	}, nil
}

func parseHeaderBody(buf []byte, h *Header) error {
	start := uint64(h.Offset)
	if start+rawBaseHeaderSize > uint64(len(buf)) {
		return fmt.Errorf("mpq: %w: buffer too small for archive header", ErrInvalidFormat)
	}

	var raw rawBaseHeader
	if err := unpackLE(buf[start:start+rawBaseHeaderSize], &raw); err != nil {
		return fmt.Errorf("mpq: %w: decode archive header: %v", ErrInvalidFormat, err)
	}

	if raw.Magic != magicMPQHeader {
		return fmt.Errorf("mpq: %w: archive header magic mismatch", ErrInvalidFormat)
	}
	if raw.FormatVersion > 1 {
		return fmt.Errorf("mpq: %w: format version %d", ErrUnsupportedVersion, raw.FormatVersion)
	}

	h.Magic = raw.Magic
	h.HeaderSize = raw.HeaderSize
	h.ArchiveSize = raw.ArchiveSize
	h.FormatVersion = raw.FormatVersion
	h.SectorSizeShift = raw.SectorSizeShift
	h.HashTableOffset = raw.HashTableOffset
	h.BlockTableOffset = raw.BlockTableOffset
	h.HashTableEntries = raw.HashTableEntries
	h.BlockTableEntries = raw.BlockTableEntries

	if raw.FormatVersion == 1 {
		extStart := start + rawBaseHeaderSize
		if extStart+rawExtendedHeaderSize > uint64(len(buf)) {
			return fmt.Errorf("mpq: %w: buffer too small for extended header", ErrInvalidFormat)
		}

		var ext rawExtendedHeader
		if err := unpackLE(buf[extStart:extStart+rawExtendedHeaderSize], &ext); err != nil {
			return fmt.Errorf("mpq: %w: decode extended header: %v", ErrInvalidFormat, err)
		}

		h.ExtendedBlockTableOffset = ext.ExtendedBlockTableOffset
		h.HashTableOffsetHigh = ext.HashTableOffsetHigh
		h.BlockTableOffsetHigh = ext.BlockTableOffsetHigh
	}

	return nil
}
