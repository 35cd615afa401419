// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package mpq reads MPQ (Mo'PaQ) archives: the container format used by
StarCraft, Diablo, Warcraft III and their replay files to bundle game
assets and recorded game data.

This package reads archives only; it does not write or modify them. It
supports format versions 0 and 1 (the versions used through StarCraft II
and WoW: Wrath of the Lich King); archives declaring a higher version are
rejected with ErrUnsupportedVersion rather than silently misread.

# Basic Usage

Opening an archive and reading a named entry:

	archive, err := mpq.Open("replay.SC2Replay")
	if err != nil {
		log.Fatal(err)
	}

	data, ok, err := archive.ReadFile("replay.details", false)
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		log.Fatal("replay.details not present in archive")
	}

Open also accepts an in-memory buffer directly:

	archive, err := mpq.Open(buf)

# Enumeration

If the archive carries a "(listfile)" entry (the conventional, optional
file-name enumeration), Open reads it automatically and Files returns the
result:

	if names, ok := archive.Files(); ok {
		for _, name := range names {
			fmt.Println(name)
		}
	}

Pass mpq.WithListfile(false) to Open to skip this.

# Path Conventions

MPQ archives index entries by backslash-separated names. ReadFile accepts
either separator and normalizes internally.

# Limitations

This is a reading engine, not a general MPQ toolkit:

  - No writing or modifying archives.
  - No decryption of file contents (only of the hash/block tables, which
    is unconditional and transparent); encrypted files are rejected.
  - No PKWARE implode, Huffman, ADPCM, or LZMA decompression — only the
    stored/deflate/bzip2 sector codecs are supported.
  - No format versions beyond 1.
*/
package mpq
