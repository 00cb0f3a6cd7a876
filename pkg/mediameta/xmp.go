package mediameta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

var xmpPrefixes = map[string]string{
	"http://purl.org/dc/elements/1.1/":    "dc",
	"http://ns.adobe.com/xap/1.0/rights/": "xmpRights",
	"http://creativecommons.org/ns#":      "cc",
}

// xmpProperties maps qualified XMP property names to field names.
var xmpProperties = map[string]string{
	"dc:rights":              "dc:rights",
	"dc:creator":             "dc:creator",
	"xmpRights:UsageTerms":   "xmpRights:UsageTerms",
	"xmpRights:WebStatement": "WebStatement",
	"cc:license":             "cc:license",
}

var packetBounds = [][2][]byte{
	{[]byte("<x:xmpmeta"), []byte("</x:xmpmeta>")},
	{[]byte("<rdf:RDF"), []byte("</rdf:RDF>")},
}

// extractXMP reads rights properties from the first XMP packet in data.
// Files without a packet yield no fields and no error.
func extractXMP(data []byte) ([]Field, error) {
	packet := xmpPacket(data)
	if packet == nil {
		return nil, nil
	}

	var (
		fields  []Field
		current *xmpCapture
		depth   int
	)

	dec := xml.NewDecoder(bytes.NewReader(packet))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(fields) > 0 {
				break
			}
			return nil, fmt.Errorf("xmp: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if current != nil {
				current.add(attrValue(t, rdfNamespace, "resource"))
				continue
			}
			if name, ok := xmpProperty(t.Name); ok {
				current = &xmpCapture{name: name, depth: depth}
				current.add(attrValue(t, rdfNamespace, "resource"))
				continue
			}
			for _, a := range t.Attr {
				if name, ok := xmpProperty(a.Name); ok {
					fields = appendField(fields, name, a.Value)
				}
			}
		case xml.CharData:
			if current != nil {
				current.add(string(t))
			}
		case xml.EndElement:
			if current != nil && depth == current.depth {
				fields = appendField(fields, current.name, strings.Join(current.parts, "; "))
				current = nil
			}
			depth--
		}
	}

	return fields, nil
}

type xmpCapture struct {
	name  string
	depth int
	parts []string
}

func (c *xmpCapture) add(v string) {
	v = strings.TrimSpace(v)
	if v != "" && !slices.Contains(c.parts, v) {
		c.parts = append(c.parts, v)
	}
}

func xmpPacket(data []byte) []byte {
	for _, b := range packetBounds {
		start := bytes.Index(data, b[0])
		if start < 0 {
			continue
		}
		end := bytes.Index(data[start:], b[1])
		if end < 0 {
			continue
		}
		return data[start : start+end+len(b[1])]
	}
	return nil
}

func xmpProperty(n xml.Name) (string, bool) {
	prefix, ok := xmpPrefixes[n.Space]
	if !ok {
		return "", false
	}
	name, ok := xmpProperties[prefix+":"+n.Local]
	return name, ok
}

func attrValue(e xml.StartElement, space, local string) string {
	for _, a := range e.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func appendField(fields []Field, name, value string) []Field {
	value = strings.TrimSpace(value)
	if value == "" {
		return fields
	}
	return append(fields, Field{Name: name, Value: value})
}
