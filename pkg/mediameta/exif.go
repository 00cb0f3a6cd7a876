package mediameta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

var exifTags = []exif.FieldName{
	exif.Copyright,
	exif.Artist,
	exif.ImageDescription,
	exif.Make,
	exif.Model,
}

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	jpegSOI      = []byte{0xFF, 0xD8}
	tiffLE       = []byte("II*\x00")
	tiffBE       = []byte("MM\x00*")
	exifHeader   = []byte("Exif\x00\x00")
)

// extractEXIF reads the fixed EXIF tag set. Files without an EXIF block
// yield no fields and no error.
func extractEXIF(data []byte) (fields []Field, err error) {
	block, ok := exifBlock(data)
	if !ok {
		return nil, nil
	}

	// goexif panics on some malformed IFD offsets.
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("exif: %v", r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(block))
	if x == nil {
		return nil, fmt.Errorf("exif: %w", err)
	}

	for _, name := range exifTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		v, err := tag.StringVal()
		if err != nil {
			continue
		}
		v = strings.TrimSpace(strings.TrimRight(v, "\x00"))
		if v == "" {
			continue
		}
		fields = append(fields, Field{Name: string(name), Value: v})
	}

	return fields, nil
}

func exifBlock(data []byte) ([]byte, bool) {
	switch {
	case bytes.HasPrefix(data, jpegSOI), bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return data, true
	case bytes.HasPrefix(data, pngSignature):
		return pngChunk(data, "eXIf")
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		block, ok := riffChunk(data, "EXIF")
		return bytes.TrimPrefix(block, exifHeader), ok
	}
	return nil, false
}

func pngChunk(data []byte, kind string) ([]byte, bool) {
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		if n < 0 || n > len(data)-start {
			return nil, false
		}
		if typ == kind {
			return data[start : start+n], true
		}
		if typ == "IEND" {
			break
		}
		pos = start + n + 4
	}
	return nil, false
}

func riffChunk(data []byte, kind string) ([]byte, bool) {
	pos := 12
	for pos+8 <= len(data) {
		typ := string(data[pos : pos+4])
		n := int(binary.LittleEndian.Uint32(data[pos+4:]))
		start := pos + 8
		if n < 0 || n > len(data)-start {
			return nil, false
		}
		if typ == kind {
			return data[start : start+n], true
		}
		pos = start + n + n%2
	}
	return nil, false
}
