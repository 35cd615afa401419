// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

// Fixed-layout wire records, decoded with github.com/go-restruct/restruct
// rather than hand-written encoding/binary field reads. Two different byte
// orders are used deliberately: the header region is genuinely
// little-endian on disk, while hash/block table entries are decoded from
// bytes already produced by decryptBlock, which hands back big-endian words
// per the §9 quirk.

type rawBaseHeader struct {
	Magic            [4]byte `struct:"[4]byte"`
	HeaderSize       uint32  `struct:"uint32"`
	ArchiveSize      uint32  `struct:"uint32"`
	FormatVersion    uint16  `struct:"uint16"`
	SectorSizeShift  uint16  `struct:"uint16"`
	HashTableOffset  uint32  `struct:"uint32"`
	BlockTableOffset uint32  `struct:"uint32"`
	HashTableEntries uint32  `struct:"uint32"`
	BlockTableEntries uint32 `struct:"uint32"`
}

const rawBaseHeaderSize = 32

type rawExtendedHeader struct {
	ExtendedBlockTableOffset int64 `struct:"int64"`
	HashTableOffsetHigh      int16 `struct:"int16"`
	BlockTableOffsetHigh     int16 `struct:"int16"`
}

const rawExtendedHeaderSize = 12

type rawUserDataHeader struct {
	Magic              [4]byte `struct:"[4]byte"`
	UserDataSize       uint32  `struct:"uint32"`
	MpqHeaderOffset    uint32  `struct:"uint32"`
	UserDataHeaderSize uint32  `struct:"uint32"`
}

const rawUserDataHeaderSize = 16

type rawHashEntry struct {
	HashA           uint32 `struct:"uint32"`
	HashB           uint32 `struct:"uint32"`
	Locale          uint16 `struct:"uint16"`
	Platform        uint16 `struct:"uint16"`
	BlockTableIndex uint32 `struct:"uint32"`
}

type rawBlockEntry struct {
	Offset       uint32 `struct:"uint32"`
	ArchivedSize uint32 `struct:"uint32"`
	Size         uint32 `struct:"uint32"`
	Flags        uint32 `struct:"uint32"`
}

const rawTableEntrySize = 16

func unpackLE(data []byte, v interface{}) error {
	return restruct.Unpack(data, binary.LittleEndian, v)
}

func unpackBE(data []byte, v interface{}) error {
	return restruct.Unpack(data, binary.BigEndian, v)
}
