package utils

import "strings"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// SplitCommaList splits a comma separated command line value, trimming
// whitespace and dropping empty names.
func SplitCommaList(value string) []string {
	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ValueOrNA substitutes the NA sentinel for an empty value.
func ValueOrNA(value string, na string) string {
	if value == "" {
		return na
	}
	return value
}
