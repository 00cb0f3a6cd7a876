package mediameta

import (
	"errors"
	"fmt"
)

// ErrDecode indicates an image whose metadata could not be decoded.
// It never escapes Scan.
var ErrDecode = errors.New("metadata decode failed")

type metadataExtractor struct{}

// DefaultExtractor reads EXIF (JPEG, TIFF, PNG eXIf and WebP EXIF chunks)
// followed by XMP packets found anywhere in the file.
func DefaultExtractor() Extractor {
	return metadataExtractor{}
}

func (metadataExtractor) Extract(name string, data []byte) ([]Field, error) {
	exifFields, exifErr := extractEXIF(data)
	xmpFields, xmpErr := extractXMP(data)

	fields := append(exifFields, xmpFields...)
	if len(fields) == 0 {
		if err := errors.Join(exifErr, xmpErr); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
		}
	}

	return fields, nil
}
