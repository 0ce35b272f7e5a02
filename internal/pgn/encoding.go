package pgn

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encodings lists the accepted input encoding names.
var Encodings = []string{"utf-8", "latin1", "windows-1252"}

// NewDecodingReader converts r from the named encoding to UTF-8.
// For UTF-8 input a leading BOM is dropped and invalid bytes become U+FFFD.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	var t transform.Transformer
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		t = transform.Chain(xunicode.BOMOverride(transform.Nop), xunicode.UTF8.NewDecoder())
	case "latin1", "latin-1", "iso-8859-1":
		t = charmap.ISO8859_1.NewDecoder()
	case "windows-1252", "cp1252":
		t = charmap.Windows1252.NewDecoder()
	default:
		return nil, fmt.Errorf("unsupported encoding %q (want one of %s)", name, strings.Join(Encodings, ", "))
	}
	return transform.NewReader(r, t), nil
}
