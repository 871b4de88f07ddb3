// Package xmlutils provides XPath helpers for reading CAMT.053 bank statements.
package xmlutils

import (
	"fmt"
	"os"

	"gopkg.in/xmlpath.v2"
)

// LoadXMLFile parses an XML file and returns its root node.
func LoadXMLFile(path string) (*xmlpath.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer file.Close()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}
	return root, nil
}

// ExtractFromXML evaluates an XPath expression against a node and returns
// every matching value in document order.
func ExtractFromXML(root *xmlpath.Node, expr string) ([]string, error) {
	path, err := xmlpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath %q: %w", expr, err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}
	return values, nil
}

// GetOrEmpty returns slice[index], or "" when the index is out of range.
// CAMT.053 entries omit optional elements, so the per-entry slices from
// ExtractFromXML are frequently shorter than the entry count.
func GetOrEmpty(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}
	return ""
}
