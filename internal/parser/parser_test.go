package parser

import (
	"bytes"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"document.hwpx", FormatHWPX},
		{"DOCUMENT.HWPX", FormatHWPX},
		{"/path/to/보고서.hwpx", FormatHWPX},
		{"document.hwp", FormatHWP},
		{"document.hwp5", FormatHWP},
		{"document.docx", FormatUnknown},
		{"document", FormatUnknown},
		{"archive.hwpx.zip", FormatUnknown},
	}

	for _, tc := range tests {
		if got := DetectFormat(tc.path); got != tc.expected {
			t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
		}
	}
}

func TestFormat_String(t *testing.T) {
	tests := map[Format]string{
		FormatHWPX:    "hwpx",
		FormatHWP:     "hwp",
		FormatUnknown: "unknown",
		Format(999):   "unknown",
	}

	for format, expected := range tests {
		if got := format.String(); got != expected {
			t.Errorf("Format(%d).String() = %q, want %q", int(format), got, expected)
		}
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}, FormatHWPX},
		{"ole compound file", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, FormatHWP},
		{"bare hwp signature", append([]byte("HWP Document File"), make([]byte, 15)...), FormatHWP},
		{"exactly four bytes", []byte("PK\x05\x06"), FormatHWPX},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, FormatUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormatFromReader(bytes.NewReader(tc.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("DetectFormatFromReader() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader_ShortData(t *testing.T) {
	if _, err := DetectFormatFromReader(bytes.NewReader([]byte{0x50, 0x4B})); err == nil {
		t.Error("expected error for short data")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.NormalizeText {
		t.Error("expected NormalizeText to be true by default")
	}
	if opts.MaxTableDepth != DefaultMaxTableDepth {
		t.Errorf("expected MaxTableDepth %d, got %d", DefaultMaxTableDepth, opts.MaxTableDepth)
	}
	if opts.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", opts.Workers)
	}
}

func TestOptions_Fallbacks(t *testing.T) {
	var opts Options

	if opts.Log() == nil {
		t.Error("expected a no-op logger for zero options")
	}
	if opts.TableDepth() != DefaultMaxTableDepth {
		t.Errorf("expected fallback depth %d, got %d", DefaultMaxTableDepth, opts.TableDepth())
	}

	opts.MaxTableDepth = 3
	if opts.TableDepth() != 3 {
		t.Errorf("expected depth 3, got %d", opts.TableDepth())
	}
}
