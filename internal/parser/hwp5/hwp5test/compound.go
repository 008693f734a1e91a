// Package hwp5test builds minimal HWP 5.x compound files for tests.
//
// The files are version 3 compound files with 512-byte sectors and a single
// FAT sector. Streams shorter than the 4096-byte cutoff would live in the mini
// stream, so FileHeader is zero-padded to the cutoff and kept in regular
// sectors; every other stream is empty.
package hwp5test

import (
	"encoding/binary"
	"strconv"
	"unicode/utf16"
)

const (
	sectorSize   = 512
	entrySize    = 128
	streamCutoff = 4096

	fatSect    uint32 = 0xFFFFFFFD
	endOfChain uint32 = 0xFFFFFFFE
	freeSect   uint32 = 0xFFFFFFFF
	noStream   uint32 = 0xFFFFFFFF

	typeStorage byte = 1
	typeStream  byte = 2
	typeRoot    byte = 5
)

// Signature is the FileHeader signature of HWP 5.x documents.
const Signature = "HWP Document File"

// FileHeader returns a 256-byte FileHeader stream. version is packed as
// 0xMMnnPPrr.
func FileHeader(version, flags uint32) []byte {
	data := make([]byte, 256)
	copy(data, Signature)
	binary.LittleEndian.PutUint32(data[32:36], version)
	binary.LittleEndian.PutUint32(data[36:40], flags)
	return data
}

// File describes the streams of a compound file.
type File struct {
	Header   []byte // FileHeader stream, at most 4096 bytes
	DocInfo  bool   // add an empty DocInfo stream
	Sections int    // empty BodyText/SectionN streams
}

// entry is a directory entry. Zero sibling and child ids mean none; id 0 is
// the root, which is never a sibling or child.
type entry struct {
	name               string
	typ                byte
	left, right, child uint32
	start              uint32
	size               uint32
}

// Bytes lays out the compound file.
func (f File) Bytes() []byte {
	entries := []entry{
		{name: "Root Entry", typ: typeRoot, start: endOfChain},
		{name: "FileHeader", typ: typeStream, size: streamCutoff},
		{name: "BodyText", typ: typeStorage, start: endOfChain},
	}
	entries[0].child = 1
	entries[1].right = 2
	if f.DocInfo {
		entries[2].right = uint32(len(entries))
		entries = append(entries, entry{name: "DocInfo", typ: typeStream, start: endOfChain})
	}
	for i := 0; i < f.Sections; i++ {
		idx := uint32(len(entries))
		if i == 0 {
			entries[2].child = idx
		} else {
			entries[idx-1].right = idx
		}
		entries = append(entries, entry{name: sectionName(i), typ: typeStream, start: endOfChain})
	}

	// sector 0 holds the FAT, then the directory, then FileHeader data
	dirSectors := (len(entries)*entrySize + sectorSize - 1) / sectorSize
	dataStart := 1 + dirSectors
	dataSectors := streamCutoff / sectorSize
	total := dataStart + dataSectors
	entries[1].start = uint32(dataStart)

	out := make([]byte, sectorSize*(1+total))
	writeHeader(out[:sectorSize])

	fat := sector(out, 0)
	for i := 0; i < sectorSize/4; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:], freeSect)
	}
	binary.LittleEndian.PutUint32(fat, fatSect)
	chain(fat, 1, dirSectors)
	chain(fat, dataStart, dataSectors)

	dir := out[sectorSize*2 : sectorSize*(2+dirSectors)]
	for i, e := range entries {
		writeEntry(dir[i*entrySize:(i+1)*entrySize], e)
	}

	copy(out[sectorSize*(1+dataStart):], f.Header)
	return out
}

func writeHeader(h []byte) {
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le := binary.LittleEndian
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 3)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], 1) // FAT sectors
	le.PutUint32(h[48:], 1) // first directory sector; v3 leaves the count at 0
	le.PutUint32(h[56:], streamCutoff)
	le.PutUint32(h[60:], endOfChain)
	le.PutUint32(h[68:], endOfChain)
	le.PutUint32(h[76:], 0)
	for off := 80; off < sectorSize; off += 4 {
		le.PutUint32(h[off:], freeSect)
	}
}

func writeEntry(b []byte, e entry) {
	le := binary.LittleEndian
	name := utf16.Encode([]rune(e.name))
	for i, c := range name {
		le.PutUint16(b[i*2:], c)
	}
	le.PutUint16(b[64:], uint16((len(name)+1)*2))
	b[66] = e.typ
	b[67] = 1 // black
	for i, id := range []uint32{e.left, e.right, e.child} {
		if id == 0 {
			id = noStream
		}
		le.PutUint32(b[68+i*4:], id)
	}
	le.PutUint32(b[116:], e.start)
	le.PutUint32(b[120:], e.size)
}

// chain links n sectors starting at first.
func chain(fat []byte, first, n int) {
	for i := 0; i < n; i++ {
		next := uint32(first + i + 1)
		if i == n-1 {
			next = endOfChain
		}
		binary.LittleEndian.PutUint32(fat[(first+i)*4:], next)
	}
}

// sector returns sector n; the header occupies the first sectorSize bytes.
func sector(file []byte, n int) []byte {
	return file[sectorSize*(n+1) : sectorSize*(n+2)]
}

func sectionName(i int) string {
	return "Section" + strconv.Itoa(i)
}
