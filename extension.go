package doclocate

import (
	"slices"
	"strings"
)

// ExtensionSet is a sorted, deduplicated list of lowercase dot-prefixed
// extensions used as the document filter.
type ExtensionSet []string

// NewExtensionSet normalizes, sorts and deduplicates exts.
// Blank entries are dropped.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, 0, len(exts))
	for _, ext := range exts {
		if ext = NormalizeExtension(ext); ext != "" {
			set = append(set, ext)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Contains reports whether ext is in the set. ext must already be normalized.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := slices.BinarySearch(s, ext)
	return ok
}

// String joins the extensions with spaces.
func (s ExtensionSet) String() string {
	return strings.Join(s, " ")
}

// NormalizeExtension lowercases ext and ensures a single leading dot.
// Returns "" for blank input.
func NormalizeExtension(ext string) string {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if ext == "" {
		return ""
	}
	return "." + strings.ToLower(ext)
}

// DoctypeTable maps human doctype names to raw extensions.
type DoctypeTable map[string][]string

// DefaultDoctypes returns a new copy of the built-in doctype table.
func DefaultDoctypes() DoctypeTable {
	return DoctypeTable{
		"doc":   {"doc", "docx"},
		"excel": {"csv", "xls", "xlsx", "xlt", "xla", "xml"},
		"image": {"jpg", "jpeg", "png", "gif", "tiff"},
		"pdf":   {"pdf"},
	}
}

// Extensions unions the extensions of the given doctypes with the raw
// extensions. Doctype names missing from the table are returned in unknown
// so the caller can report them; they contribute nothing to the set.
func (t DoctypeTable) Extensions(doctypes, exts []string) (set ExtensionSet, unknown []string) {
	all := slices.Clone(exts)
	for _, doctype := range doctypes {
		mapped, ok := t[doctype]
		if !ok || len(mapped) == 0 {
			unknown = append(unknown, doctype)
			continue
		}
		all = append(all, mapped...)
	}
	return NewExtensionSet(all...), unknown
}

// Names returns the doctype names in sorted order.
func (t DoctypeTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllExtensions returns every extension in the table as an ExtensionSet.
func (t DoctypeTable) AllExtensions() ExtensionSet {
	var all []string
	for _, exts := range t {
		all = append(all, exts...)
	}
	return NewExtensionSet(all...)
}
