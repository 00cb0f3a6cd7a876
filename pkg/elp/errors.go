package elp

import "errors"

var (
	ErrFormat               = errors.New("package is not a valid zip archive")
	ErrContentNotFound      = errors.New("package has no content document (contentv3.xml or content.xml)")
	ErrUnsupportedExtension = errors.New("unsupported package extension (expected .elp, .elpx or .zip)")
	ErrEntryNotFound        = errors.New("package entry not found")
	ErrEntryTooLarge        = errors.New("package entry exceeds maximum size")
)
