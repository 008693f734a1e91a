package hwp5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidSignature는 FileHeader 시그니처가 HWP 문서가 아닐 때 반환된다.
var ErrInvalidSignature = errors.New("invalid HWP signature")

// FileHeader는 HWP 5.x 파일 인식 정보
type FileHeader struct {
	Signature [32]byte
	Version   Version
	Flags     uint32
}

// rawFileHeader는 FileHeader 스트림 앞부분의 디스크 배치 (little-endian)
type rawFileHeader struct {
	Signature [32]byte
	Version   uint32 // 0xMMnnPPrr
	Flags     uint32
}

// Version은 HWP 파일 버전 (예: 5.0.3.0)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

func versionFromUint32(v uint32) Version {
	return Version{
		Major:    uint8(v >> 24),
		Minor:    uint8(v >> 16),
		Build:    uint8(v >> 8),
		Revision: uint8(v),
	}
}

// String returns version string like "5.0.3.0"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseFileHeader decodes the FileHeader stream.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("file header too small: %d bytes", len(data))
	}

	var raw rawFileHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw); err != nil {
		return nil, fmt.Errorf("FileHeader 디코딩 실패: %w", err)
	}

	if sig := string(bytes.TrimRight(raw.Signature[:], "\x00")); sig != Signature {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
	}

	return &FileHeader{
		Signature: raw.Signature,
		Version:   versionFromUint32(raw.Version),
		Flags:     raw.Flags,
	}, nil
}

// flagNames는 보고용 속성 이름 (비트 순서)
var flagNames = []struct {
	flag uint32
	name string
}{
	{FlagCompressed, "compressed"},
	{FlagEncrypted, "encrypted"},
	{FlagDistributable, "distribution"},
	{FlagDRM, "drm"},
}

// FlagNames lists the set attribute flags, compression excluded unless
// withCompression is true.
func (h *FileHeader) FlagNames(withCompression bool) []string {
	var names []string
	for _, f := range flagNames {
		if f.flag == FlagCompressed && !withCompression {
			continue
		}
		if h.Flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

func (h *FileHeader) IsCompressed() bool    { return h.Flags&FlagCompressed != 0 }
func (h *FileHeader) IsEncrypted() bool     { return h.Flags&FlagEncrypted != 0 }
func (h *FileHeader) IsDistributable() bool { return h.Flags&FlagDistributable != 0 }
func (h *FileHeader) HasDRM() bool          { return h.Flags&FlagDRM != 0 }
