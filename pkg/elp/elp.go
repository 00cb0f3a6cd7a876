// Package elp reads eXeLearning packages (.elp/.elpx), which are ZIP
// archives holding one primary XML content document plus media resources.
package elp

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ContentCandidates are the primary content entry names in priority order.
var ContentCandidates = []string{"contentv3.xml", "content.xml"}

// Extensions lists the accepted package file extensions.
var Extensions = []string{".elp", ".elpx", ".zip"}

// MaxEntrySize bounds the decompressed size of a single entry.
const MaxEntrySize = 512 << 20

// Package is an opened in-memory archive. It is safe for concurrent reads.
type Package struct {
	names []string
	files map[string]*zip.File
}

// Open parses data as a ZIP archive.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	p := &Package{
		names: make([]string, 0, len(zr.File)),
		files: make(map[string]*zip.File, len(zr.File)),
	}

	for _, f := range zr.File {
		if _, dup := p.files[f.Name]; dup {
			continue
		}
		p.names = append(p.names, f.Name)
		p.files[f.Name] = f
	}

	return p, nil
}

// CheckExtension verifies filename carries an accepted package extension.
func CheckExtension(filename string) error {
	ext := strings.ToLower(path.Ext(filename))
	if !slices.Contains(Extensions, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, filename)
	}
	return nil
}

// Entries returns every entry name in archive listing order.
func (p *Package) Entries() []string {
	return slices.Clone(p.names)
}

// Read returns the decompressed bytes of the named entry.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, name)
	}

	return data, nil
}

// ContentEntry selects the primary content document: contentv3.xml, then
// content.xml, then the first .xml entry whose name does not contain
// "container".
func (p *Package) ContentEntry() (string, error) {
	for _, name := range ContentCandidates {
		if _, ok := p.files[name]; ok {
			return name, nil
		}
	}

	for _, name := range p.names {
		if strings.HasSuffix(name, ".xml") && !strings.Contains(name, "container") {
			return name, nil
		}
	}

	return "", ErrContentNotFound
}

// Content returns the decoded text of the primary content document.
func (p *Package) Content() (string, error) {
	name, err := p.ContentEntry()
	if err != nil {
		return "", err
	}

	data, err := p.Read(name)
	if err != nil {
		return "", err
	}

	return DecodeText(data)
}
