package mpq

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureEntry describes one file baked into a synthetic archive by
// buildFixtureArchive. Real archives are built by an MPQ-aware packer; here
// the test constructs the on-disk bytes directly so the reader can be
// exercised without a real MPQ toolchain in the test environment.
type fixtureEntry struct {
	name        string
	plain       []byte
	multiSector bool // forces sectorSize-chunked, uncompressed layout
	deflate     bool // stores as a single compressed unit (codecDeflate)
}

const fixtureSectorSize = 512 // sectorSizeShift = 0

// buildFixtureArchive assembles a minimal, valid, unencrypted-content MPQ
// archive (format version 0, no user-data prefix) containing exactly the
// given entries plus an automatically generated "(listfile)" naming the
// rest in order. It returns the complete archive buffer.
func buildFixtureArchive(t *testing.T, entries []fixtureEntry) []byte {
	t.Helper()

	var listfile bytes.Buffer
	for _, e := range entries {
		listfile.WriteString(e.name)
		listfile.WriteString("\r\n")
	}

	all := append([]fixtureEntry{{name: listfileName, plain: listfile.Bytes()}}, entries...)

	var body bytes.Buffer
	payloadOffsets := make([]uint32, len(all))
	archivedSizes := make([]uint32, len(all))
	logicalSizes := make([]uint32, len(all))
	flags := make([]uint32, len(all))

	const headerSize = rawBaseHeaderSize // version 0: no extended header

	for i, e := range all {
		payloadOffsets[i] = headerSize + uint32(body.Len())
		logicalSizes[i] = uint32(len(e.plain))

		switch {
		case e.deflate:
			var compressed bytes.Buffer
			w := zlib.NewWriter(&compressed)
			_, err := w.Write(e.plain)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			body.WriteByte(codecDeflate)
			body.Write(compressed.Bytes())
			archivedSizes[i] = uint32(1 + compressed.Len())
			flags[i] = blockExists | blockSingleUnit | blockCompress

		case e.multiSector:
			sectors := chunk(e.plain, fixtureSectorSize)
			numOffsets := len(sectors) + 1
			table := make([]byte, numOffsets*4)
			pos := uint32(len(table))
			binary.LittleEndian.PutUint32(table[0:4], pos)
			for j, s := range sectors {
				pos += uint32(len(s))
				binary.LittleEndian.PutUint32(table[(j+1)*4:(j+2)*4], pos)
			}

			body.Write(table)
			for _, s := range sectors {
				body.Write(s)
			}
			archivedSizes[i] = uint32(len(table)) + uint32(len(e.plain))
			flags[i] = blockExists

		default: // stored single unit, no compression marker
			body.Write(e.plain)
			archivedSizes[i] = uint32(len(e.plain))
			flags[i] = blockExists | blockSingleUnit
		}
	}

	fileSectionEnd := headerSize + uint32(body.Len())

	hashPlain := make([]byte, len(all)*rawTableEntrySize)
	blockPlain := make([]byte, len(all)*rawTableEntrySize)
	for i, e := range all {
		name := normalizeName(e.name)
		a := hashString(name, hashRoleHashA)
		b := hashString(name, hashRoleHashB)
		binary.BigEndian.PutUint32(hashPlain[i*16:i*16+4], a)
		binary.BigEndian.PutUint32(hashPlain[i*16+4:i*16+8], b)
		binary.BigEndian.PutUint16(hashPlain[i*16+8:i*16+10], 0)
		binary.BigEndian.PutUint16(hashPlain[i*16+10:i*16+12], 0)
		binary.BigEndian.PutUint32(hashPlain[i*16+12:i*16+16], uint32(i))

		binary.BigEndian.PutUint32(blockPlain[i*16:i*16+4], payloadOffsets[i])
		binary.BigEndian.PutUint32(blockPlain[i*16+4:i*16+8], archivedSizes[i])
		binary.BigEndian.PutUint32(blockPlain[i*16+8:i*16+12], logicalSizes[i])
		binary.BigEndian.PutUint32(blockPlain[i*16+12:i*16+16], flags[i])
	}

	hashCipher, err := encryptBlock(hashPlain, hashTableKey())
	require.NoError(t, err)
	blockCipher, err := encryptBlock(blockPlain, blockTableKey())
	require.NoError(t, err)

	hashTableOffset := fileSectionEnd
	blockTableOffset := hashTableOffset + uint32(len(hashCipher))
	archiveSize := headerSize + uint32(len(body.Bytes())) + uint32(len(hashCipher)) + uint32(len(blockCipher))

	var archive bytes.Buffer
	archive.Write([]byte{'M', 'P', 'Q', 0x1A})
	binary.Write(&archive, binary.LittleEndian, uint32(headerSize))
	binary.Write(&archive, binary.LittleEndian, archiveSize)
	binary.Write(&archive, binary.LittleEndian, uint16(0)) // formatVersion
	binary.Write(&archive, binary.LittleEndian, uint16(0)) // sectorSizeShift
	binary.Write(&archive, binary.LittleEndian, hashTableOffset)
	binary.Write(&archive, binary.LittleEndian, blockTableOffset)
	binary.Write(&archive, binary.LittleEndian, uint32(len(all)))
	binary.Write(&archive, binary.LittleEndian, uint32(len(all)))
	require.Equal(t, int(headerSize), archive.Len())

	archive.Write(body.Bytes())
	archive.Write(hashCipher)
	archive.Write(blockCipher)

	return archive.Bytes()
}

// buildFixtureArchiveWithDeleteMarker builds a one-entry archive where name
// resolves to a live block carrying the DELETE_MARKER flag, the shape a
// patch archive uses to retract a file a base archive still has.
func buildFixtureArchiveWithDeleteMarker(t *testing.T, name string) []byte {
	t.Helper()

	const headerSize = rawBaseHeaderSize

	normalized := normalizeName(name)
	a := hashString(normalized, hashRoleHashA)
	b := hashString(normalized, hashRoleHashB)

	hashPlain := make([]byte, rawTableEntrySize)
	binary.BigEndian.PutUint32(hashPlain[0:4], a)
	binary.BigEndian.PutUint32(hashPlain[4:8], b)
	binary.BigEndian.PutUint16(hashPlain[8:10], 0)
	binary.BigEndian.PutUint16(hashPlain[10:12], 0)
	binary.BigEndian.PutUint32(hashPlain[12:16], 0)

	blockPlain := make([]byte, rawTableEntrySize)
	binary.BigEndian.PutUint32(blockPlain[0:4], 0)  // Offset
	binary.BigEndian.PutUint32(blockPlain[4:8], 0)  // ArchivedSize
	binary.BigEndian.PutUint32(blockPlain[8:12], 0) // Size
	binary.BigEndian.PutUint32(blockPlain[12:16], blockExists|blockDeleteMarker)

	hashCipher, err := encryptBlock(hashPlain, hashTableKey())
	require.NoError(t, err)
	blockCipher, err := encryptBlock(blockPlain, blockTableKey())
	require.NoError(t, err)

	hashTableOffset := uint32(headerSize)
	blockTableOffset := hashTableOffset + uint32(len(hashCipher))
	archiveSize := headerSize + uint32(len(hashCipher)) + uint32(len(blockCipher))

	var archive bytes.Buffer
	archive.Write([]byte{'M', 'P', 'Q', 0x1A})
	binary.Write(&archive, binary.LittleEndian, uint32(headerSize))
	binary.Write(&archive, binary.LittleEndian, archiveSize)
	binary.Write(&archive, binary.LittleEndian, uint16(0))
	binary.Write(&archive, binary.LittleEndian, uint16(0))
	binary.Write(&archive, binary.LittleEndian, hashTableOffset)
	binary.Write(&archive, binary.LittleEndian, blockTableOffset)
	binary.Write(&archive, binary.LittleEndian, uint32(1))
	binary.Write(&archive, binary.LittleEndian, uint32(1))

	archive.Write(hashCipher)
	archive.Write(blockCipher)

	return archive.Bytes()
}

func chunk(data []byte, size int) [][]byte {
	var out [][]byte
	for len(data) > size {
		out = append(out, data[:size])
		data = data[size:]
	}
	out = append(out, data)
	return out
}
