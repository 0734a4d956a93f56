package compact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// filetype needs 262 bytes to recognize all supported archive formats
const headSize = 262

var (
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
	charsetPrefix = []byte(`@charset "`)
	charsetSuffix = []byte(`";`)
)

// isArchiveFile checks file extension and signature to see if path points to
// zip or epub archive.
func isArchiveFile(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".epub":
	default:
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, headSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = head[:n]
	return filetype.Is(head, "zip") || filetype.Is(head, "epub"), nil
}

// isStylesheetFile checks if path looks like a stylesheet.
func isStylesheetFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".css")
}

// charsetRule returns label of @charset rule if data starts with one. Only
// the exact form is recognized: `@charset "label";`.
func charsetRule(data []byte) (string, bool) {
	rest, ok := bytes.CutPrefix(data, charsetPrefix)
	if !ok {
		return "", false
	}
	label, _, ok := bytes.Cut(rest, charsetSuffix)
	if !ok || len(label) == 0 || bytes.ContainsAny(label, "\"\n") {
		return "", false
	}
	return string(label), true
}

// decodeStylesheet converts stylesheet data to UTF-8 and returns the name of
// the encoding it has been decoded from. The encoding is taken from byte
// order mark, then from @charset rule, then fallback is used. Without
// fallback UTF-8 is assumed when data is valid UTF-8 and windows-1252
// otherwise.
func decodeStylesheet(data []byte, fallback encoding.Encoding) ([]byte, string, error) {
	enc, name, certain := charset.DetermineEncoding(data, "text/css")
	if !certain {
		if label, ok := charsetRule(data); ok {
			if e, n := charset.Lookup(label); e != nil {
				// rule readable as ASCII means the data is not utf-16
				if strings.HasPrefix(n, "utf-16") {
					e, n = charset.Lookup("utf-8")
				}
				enc, name, certain = e, n, true
			}
		}
	}
	switch {
	case certain:
	case fallback != nil:
		enc = fallback
		if n, err := ianaindex.IANA.Name(fallback); err == nil {
			name = strings.ToLower(n)
		}
	case utf8.Valid(data):
		enc, name = encoding.Nop, "utf-8"
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), name, nil
}
