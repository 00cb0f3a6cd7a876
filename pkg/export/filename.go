package export

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

// Export file extensions.
const (
	ExtCSV = ".csv"
	ExtPDF = ".pdf"
)

// Filename builds the download name audit_<source>_<lang>_<YYYY-MM-DD><ext>.
// The source name loses its directory and extension and any character that
// is not a letter, digit, dash, dot or underscore.
func Filename(source, lang string, date time.Time, ext string) string {
	return fmt.Sprintf("audit_%s_%s_%s%s", SanitizeName(source), lang, date.Format(time.DateOnly), ext)
}

// SanitizeName reduces a source filename to a safe stem.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, path.Ext(name))

	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, name)

	if clean == "" || clean == "." {
		return "package"
	}
	return clean
}
