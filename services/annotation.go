package services

import (
	"strings"
)

type (
	// AnnotationEntry is one pipe separated annotation, positionally
	// aligned with the schema. It may be shorter than the schema.
	AnnotationEntry []string

	// AnnotationIterator splits a comma separated annotation payload
	// lazily, one entry per call to Next.
	AnnotationIterator struct {
		rest string
		done bool
	}
)

// Get returns the token at a schema index ; an index past the end of
// the entry reads as absent.
func (e AnnotationEntry) Get(index int) (string, bool) {
	if index < 0 || index >= len(e) {
		return "", false
	}
	return e[index], true
}

func ParseAnnotations(payload string) *AnnotationIterator {
	return &AnnotationIterator{
		rest: payload,
		done: payload == "",
	}
}

func (it *AnnotationIterator) Next() (AnnotationEntry, bool) {
	if it.done {
		return nil, false
	}

	entry, rest, found := strings.Cut(it.rest, ",")
	if !found {
		it.done = true
	}
	it.rest = rest

	return AnnotationEntry(strings.Split(entry, "|")), true
}

// All drains the iterator.
func (it *AnnotationIterator) All() []AnnotationEntry {
	var entries []AnnotationEntry
	for {
		entry, ok := it.Next()
		if !ok {
			return entries
		}
		entries = append(entries, entry)
	}
}
