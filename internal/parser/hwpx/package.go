package hwpx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/roboco-io/hwpxspec/internal/parser"
	"github.com/roboco-io/hwpxspec/internal/parser/hwp5"
)

// Sentinel errors for package access.
var (
	ErrNotAnArchive = errors.New("not an HWPX archive")
	ErrPartNotFound = errors.New("part not found in package")
	ErrMalformedXML = errors.New("malformed XML part")
)

// Well-known part names.
const (
	HeaderPart    = "Contents/header.xml"
	sectionPrefix = "contents/section"
)

var manifestParts = []string{
	"Contents/content.hpf",
	"content.hpf",
}

// Package gives named access to the parts of an HWPX archive.
// Parts are not cached; every Part call reads from the archive.
type Package struct {
	path   string
	closer io.Closer
	files  map[string]*zip.File // lower-cased name -> entry
	names  []string             // entry names in archive order
}

// Open opens the HWPX archive at path. A legacy HWP 5.x binary yields an
// error wrapping hwp5.ErrLegacyFormat; anything else that is not a ZIP
// container yields ErrNotAnArchive.
func Open(path string) (*Package, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if legacy := probeLegacy(path); legacy != nil {
			return nil, legacy
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAnArchive, path, err)
	}

	return newPackage(path, &r.Reader, r), nil
}

// OpenReaderAt opens an HWPX archive held in r.
func OpenReaderAt(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		if format, ferr := parser.DetectFormatFromReader(r); ferr == nil && format == parser.FormatHWP {
			if info, perr := hwp5.ProbeReader(r); perr == nil {
				return nil, info.Error()
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrNotAnArchive, err)
	}
	return newPackage("", zr, nil), nil
}

func newPackage(path string, zr *zip.Reader, closer io.Closer) *Package {
	p := &Package{
		path:   path,
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
		names:  make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		p.files[strings.ToLower(f.Name)] = f
		p.names = append(p.names, f.Name)
	}
	return p
}

// probeLegacy returns a descriptive error if path is an HWP 5.x binary.
func probeLegacy(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	format, err := parser.DetectFormatFromReader(f)
	if err != nil || format != parser.FormatHWP {
		return nil
	}
	info, err := hwp5.ProbeReader(f)
	if err != nil {
		return nil
	}
	return info.Error()
}

// Path returns the archive path, empty for in-memory packages.
func (p *Package) Path() string {
	return p.path
}

// Close releases the archive handle.
func (p *Package) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Names returns all part names in archive order.
func (p *Package) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Has reports whether the named part exists. Names compare case-insensitively.
func (p *Package) Has(name string) bool {
	_, ok := p.files[strings.ToLower(name)]
	return ok
}

// Part opens the named part for reading.
func (p *Package) Part(name string) (io.ReadCloser, error) {
	f, ok := p.files[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	return rc, nil
}

// ReadPart returns the full content of the named part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	rc, err := p.Part(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	return data, nil
}

// ParsePart reads the named part into an addressable XML tree.
func (p *Package) ParsePart(name string) (*etree.Document, error) {
	data, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedXML, name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformedXML, name)
	}
	return doc, nil
}

// SectionNames returns the section parts in lexical order.
func (p *Package) SectionNames() []string {
	var sections []string
	for _, name := range p.names {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, sectionPrefix) && strings.HasSuffix(lower, ".xml") {
			sections = append(sections, name)
		}
	}
	sort.Strings(sections)
	return sections
}

// ManifestName returns the name of the OPF manifest part, if any.
func (p *Package) ManifestName() (string, bool) {
	for _, name := range manifestParts {
		if f, ok := p.files[strings.ToLower(name)]; ok {
			return f.Name, true
		}
	}
	return "", false
}
