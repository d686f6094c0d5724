package docparse

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const indent = 2

// parseNode parses raw frontmatter text into its document node, returning
// the top-level mapping node callers mutate in place.
func parseNode(raw string) (*yaml.Node, *yaml.Node, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	if len(doc.Content) == 0 {
		doc.Kind = yaml.DocumentNode
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("parse frontmatter: expected a mapping at the top level")
	}

	return &doc, mapping, nil
}

func encodeNode(doc *yaml.Node) (string, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("serialize frontmatter: %w", err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("serialize frontmatter: %w", err)
	}

	return buf.String(), nil
}

func findKey(mapping *yaml.Node, key string) (idx int, found bool) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i, true
		}
	}

	return -1, false
}

// SetField replaces key's value in raw frontmatter text, or inserts it
// immediately after the opening delimiter if absent. Every other key's
// comments, ordering, and style are left untouched.
func SetField(raw string, key string, value any) (string, error) {
	doc, mapping, err := parseNode(raw)
	if err != nil {
		return "", err
	}

	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return "", fmt.Errorf("encode value for %q: %w", key, err)
	}

	if idx, found := findKey(mapping, key); found {
		// Keep the key node (and any attached comments) as-is; only the
		// value is replaced.
		mapping.Content[idx+1] = valueNode

		return encodeNode(doc)
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	mapping.Content = append([]*yaml.Node{keyNode, valueNode}, mapping.Content...)

	return encodeNode(doc)
}

// RemoveField deletes key from raw frontmatter text. It is a no-op if the
// key is absent.
func RemoveField(raw string, key string) (string, error) {
	doc, mapping, err := parseNode(raw)
	if err != nil {
		return "", err
	}

	idx, found := findKey(mapping, key)
	if !found {
		return raw, nil
	}

	mapping.Content = append(mapping.Content[:idx], mapping.Content[idx+2:]...)

	return encodeNode(doc)
}

// GetField reads key's scalar value tolerantly (generic mapping, not the
// strict schema). ok is false if the key is absent.
func GetField(raw string, key string) (value string, ok bool, err error) {
	_, mapping, err := parseNode(raw)
	if err != nil {
		return "", false, err
	}

	idx, found := findKey(mapping, key)
	if !found {
		return "", false, nil
	}

	return mapping.Content[idx+1].Value, true, nil
}

// GetArrayField reads key's sequence value tolerantly. A missing key
// yields an empty, non-nil slice so callers can append unconditionally.
func GetArrayField(raw string, key string) ([]string, error) {
	_, mapping, err := parseNode(raw)
	if err != nil {
		return nil, err
	}

	idx, found := findKey(mapping, key)
	if !found {
		return []string{}, nil
	}

	seq := mapping.Content[idx+1]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("field %q is not a list", key)
	}

	items := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		items = append(items, item.Value)
	}

	return items, nil
}

// AddToArrayField appends value to key's sequence if not already present,
// using the tolerant path (a generic YAML mapping) so the edit succeeds
// even if the document as a whole fails strict validation. Returns false
// without modifying raw if value is already present.
func AddToArrayField(raw string, key string, value string) (newRaw string, added bool, err error) {
	items, err := GetArrayField(raw, key)
	if err != nil {
		return "", false, err
	}

	for _, item := range items {
		if item == value {
			return raw, false, nil
		}
	}

	items = append(items, value)

	newRaw, err = SetField(raw, key, items)
	if err != nil {
		return "", false, err
	}

	return newRaw, true, nil
}

// RemoveFromArrayField removes value from key's sequence if present.
// Returns false without modifying raw if value was not present.
func RemoveFromArrayField(raw string, key string, value string) (newRaw string, removed bool, err error) {
	items, err := GetArrayField(raw, key)
	if err != nil {
		return "", false, err
	}

	out := items[:0:0]
	found := false

	for _, item := range items {
		if item == value {
			found = true

			continue
		}

		out = append(out, item)
	}

	if !found {
		return raw, false, nil
	}

	newRaw, err = SetField(raw, key, out)
	if err != nil {
		return "", false, err
	}

	return newRaw, true, nil
}

// HasInArrayField reports whether value is present in key's sequence.
func HasInArrayField(raw string, key string, value string) (bool, error) {
	items, err := GetArrayField(raw, key)
	if err != nil {
		return false, err
	}

	for _, item := range items {
		if item == value {
			return true, nil
		}
	}

	return false, nil
}
