// Package parser provides the parser contract, format detection and extraction options.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// Parser is the interface for document parsers.
type Parser interface {
	// Parse reads the document and returns its normalized block sequence.
	Parse() (*ir.Document, error)

	// Close releases any resources held by the parser.
	Close() error
}

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX           // OWPML zip package
	FormatHWP            // HWP 5.x binary (OLE compound file)
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp"
	default:
		return "unknown"
	}
}

var extensions = map[string]Format{
	".hwpx": FormatHWPX,
	".hwp":  FormatHWP,
	".hwp5": FormatHWP,
}

// DetectFormat detects the document format from the file extension.
func DetectFormat(path string) Format {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// signatures are matched in order against the first bytes of a file.
var signatures = []struct {
	magic  []byte
	format Format
}{
	{[]byte("PK"), FormatHWPX},
	{[]byte{0xD0, 0xCF, 0x11, 0xE0}, FormatHWP},
	{[]byte("HWP"), FormatHWP},
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format: %d bytes", n)
	}

	for _, sig := range signatures {
		if bytes.HasPrefix(buf[:n], sig.magic) {
			return sig.format, nil
		}
	}
	return FormatUnknown, nil
}

// DefaultMaxTableDepth bounds table-in-cell recursion.
const DefaultMaxTableDepth = 32

// Options contains extraction options.
type Options struct {
	Logger        *zap.Logger // nil means no logging
	NormalizeText bool        // NFC-normalize run text
	MaxTableDepth int         // nested table recursion bound; <= 0 means DefaultMaxTableDepth
	Workers       int         // sections walked concurrently; <= 1 means sequential
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		NormalizeText: true,
		MaxTableDepth: DefaultMaxTableDepth,
		Workers:       1,
	}
}

// Log returns the configured logger or a no-op logger.
func (o Options) Log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// TableDepth returns the effective nested table bound.
func (o Options) TableDepth() int {
	if o.MaxTableDepth <= 0 {
		return DefaultMaxTableDepth
	}
	return o.MaxTableDepth
}
