package org

import "strings"

// parseExportSettings applies a `#+options:` line to the current export
// settings and returns the result. The line is a space-separated list of
// flag:value pairs; "nil" disables a flag, "t" enables it, anything else is
// ignored, as are unrecognized flags. The input settings are not mutated.
func parseExportSettings(line string, current ExportSettings) ExportSettings {
	out := current
	for _, field := range strings.Fields(line) {
		name, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		var enabled bool
		switch value {
		case "t":
			enabled = true
		case "nil":
			enabled = false
		default:
			continue
		}
		switch name {
		case "author":
			out.Author = enabled
		case "creator":
			out.Creator = enabled
		case "email":
			out.Email = enabled
		case "toc":
			out.Toc = enabled
		case "num":
			out.Num = enabled
		case "tags":
			out.Tags = enabled
		}
	}
	return out
}
