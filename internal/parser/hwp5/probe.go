package hwp5

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
)

// ErrLegacyFormat is returned when an HWP 5.x binary is given where an HWPX
// package is expected.
var ErrLegacyFormat = errors.New("legacy HWP 5.x binary document")

// Info describes a recognized HWP 5.x file.
type Info struct {
	Header     *FileHeader
	Sections   int // BodyText/SectionN streams
	HasDocInfo bool
}

// Error returns ErrLegacyFormat annotated with the file's properties.
func (i *Info) Error() error {
	detail := fmt.Sprintf("version %s, %d sections", i.Header.Version, i.Sections)
	if notes := i.Header.FlagNames(false); len(notes) > 0 {
		detail += ", " + strings.Join(notes, ", ")
	}
	return fmt.Errorf("%w (%s); convert it to .hwpx first", ErrLegacyFormat, detail)
}

// Probe opens path as an OLE compound file and reads its FileHeader stream.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("HWP 파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader is Probe over an already opened reader.
func ProbeReader(r io.ReaderAt) (*Info, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("OLE2 문서 파싱 실패: %w", err)
	}

	info := &Info{}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch {
		case entry.Name == StreamFileHeader:
			data, err := io.ReadAll(entry)
			if err != nil {
				return nil, fmt.Errorf("FileHeader 스트림을 읽을 수 없습니다: %w", err)
			}
			header, err := ParseFileHeader(data)
			if err != nil {
				return nil, err
			}
			info.Header = header
		case entry.Name == StreamDocInfo:
			info.HasDocInfo = true
		case strings.HasPrefix(entry.Name, "Section") && inBodyText(entry.Path):
			info.Sections++
		}
	}

	if info.Header == nil {
		return nil, fmt.Errorf("FileHeader 스트림이 없습니다")
	}
	return info, nil
}

func inBodyText(path []string) bool {
	for _, p := range path {
		if p == StreamBodyText {
			return true
		}
	}
	return false
}
