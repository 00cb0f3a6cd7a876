package elp

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

var declRegex = regexp.MustCompile(`^\s*<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// DecodeText converts an XML document to a UTF-8 string using its byte order
// mark or the encoding named in its declaration. Unknown encodings and
// undeclared documents are read as UTF-8.
func DecodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return toValidUTF8(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16BE), bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	enc := declaredEncoding(data)
	if enc == nil {
		return toValidUTF8(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func declaredEncoding(data []byte) encoding.Encoding {
	head := data[:min(len(data), 256)]
	m := declRegex.FindSubmatch(head)
	if m == nil {
		return nil
	}

	name := strings.ToLower(string(m[1]))
	if name == "utf-8" || name == "utf8" {
		return nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil
	}
	return enc
}

func toValidUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
