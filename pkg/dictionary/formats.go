package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// FileFormat represents different corpus file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // tab separated keys, one entry per line
	FormatMsgpack            // msgpack array of string arrays
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain Text Corpus",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     0,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Name:        "msgpack",
		Description: "MessagePack Corpus",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // At least the array header
	},
}

// sniffSize is how much of a file the validators look at.
const sniffSize = 4096

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formatInfo.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	switch expectedFormat {
	case FormatText:
		err = validateTextFormat(file)
	case FormatMsgpack:
		err = validateMsgpackFormat(file)
	}
	if err != nil {
		return fmt.Errorf("file %s is not a valid %s: %w", filename, formatInfo.Description, err)
	}
	log.Debugf("%s file %s validated", formatInfo.Description, filename)
	return nil
}

// validateTextFormat checks that the start of the file is UTF-8 text.
func validateTextFormat(r io.Reader) error {
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	buf = buf[:n]
	if n == sniffSize {
		// The read can stop inside a multi-byte rune.
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(buf); i++ {
			buf = buf[:len(buf)-1]
		}
	}
	if !utf8.Valid(buf) {
		return fmt.Errorf("not UTF-8 text")
	}
	return nil
}

// validateMsgpackFormat checks that the file starts with a msgpack array header.
func validateMsgpackFormat(r io.Reader) error {
	code, err := bufio.NewReader(r).Peek(1)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	c := code[0]
	if !msgpcode.IsFixedArray(c) && c != msgpcode.Array16 && c != msgpcode.Array32 {
		return fmt.Errorf("expected an array, got code %#x", c)
	}
	return nil
}

// DetectFileFormat attempts to detect the format of a file from its extension
// and validates the content against it.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range ListSupportedFormats() {
		if !slices.Contains(info.Extensions, ext) {
			continue
		}
		if err := ValidateFileFormat(filename, info.Format); err != nil {
			return FormatUnknown, err
		}
		return info.Format, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats, ordered by format.
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	slices.SortFunc(formats, func(a, b FormatInfo) int {
		return int(a.Format) - int(b.Format)
	})
	return formats
}
