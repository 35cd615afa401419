// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Per-sector codec bytes recognized by the core (spec §4.7.1). Any other
// byte is an UnsupportedCompression error — this table is exhaustive and
// tested, not a starting point for more codecs.
const (
	codecStored  byte = 0x00
	codecDeflate byte = 0x02
	codecBzip2   byte = 0x10
)

// decompressSector decompresses one codec-byte-prefixed sector or
// single-unit payload (spec §4.7.1). Deflate and bzip2 output is cut off at
// uncompressedSize bytes; a stream that ends early yields fewer bytes.
//
// codecStored is bug-compatible with the reference implementation this
// format comes from: a copy of the whole input, codec byte included, is
// returned rather than just the payload after it (spec §9).
func decompressSector(data []byte, uncompressedSize uint32) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("mpq: %w: empty compressed sector", ErrCorruptPayload)
	}

	codec := data[0]
	switch codec {
	case codecStored:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil

	case codecDeflate:
		return decompressDeflate(data[1:], uncompressedSize)

	case codecBzip2:
		return decompressBzip2(data[1:], uncompressedSize)

	default:
		return nil, newCompressionError(codec)
	}
}

func decompressDeflate(data []byte, uncompressedSize uint32) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mpq: %w: zlib: %v", ErrCorruptPayload, err)
	}
	defer r.Close()

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("mpq: %w: zlib: %v", ErrCorruptPayload, err)
	}

	return out[:n], nil
}

func decompressBzip2(data []byte, uncompressedSize uint32) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("mpq: %w: bzip2: %v", ErrCorruptPayload, err)
	}

	return out[:n], nil
}
