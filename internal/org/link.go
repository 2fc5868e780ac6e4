package org

import (
	"net/url"
	"strings"
)

// CompileLinkFormat compiles a `#+link:` format string into a substitution
// function. Three mutually exclusive forms, tried in order:
//
//   - the format contains "%s": the link path is interpolated at the first
//     occurrence, verbatim
//   - the format contains "%h": same split, but the path is percent-encoded
//   - neither: the path is appended to the format
//
// Only the first placeholder occurrence is a split point; any further "%s"
// or "%h" in the suffix is left untouched.
func CompileLinkFormat(format string) LinkFormatter {
	if i := strings.Index(format, "%s"); i >= 0 {
		prefix, suffix := format[:i], format[i+2:]
		return func(path string) string {
			return prefix + path + suffix
		}
	}
	if i := strings.Index(format, "%h"); i >= 0 {
		prefix, suffix := format[:i], format[i+2:]
		return func(path string) string {
			return prefix + url.PathEscape(path) + suffix
		}
	}
	return func(path string) string {
		return format + path
	}
}
