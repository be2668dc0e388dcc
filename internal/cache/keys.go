package cache

import (
	"sort"
	"strings"
)

// Cache keys have the shape <domain>:<id>:<variant>, e.g. "team:42:all",
// "league:7:month=2026-08", "fixture:99:offers".  Filter parameters are
// canonicalized before they enter the key: names sorted, values trimmed and
// lowercased, empty values dropped.  Two logically identical queries whose
// filters arrive in different literal forms therefore share one entry, which
// the previous string-concatenation scheme did not guarantee.

// Key builds a canonical cache key from a domain tag, an entity id and
// optional filter parameters.
func Key(domain, id string, filters map[string]string) string {
	var b strings.Builder
	b.WriteString(domain)
	b.WriteByte(':')
	b.WriteString(id)

	canon := canonicalize(filters)
	if len(canon) == 0 {
		b.WriteString(":all")
		return b.String()
	}
	names := make([]string, 0, len(canon))
	for name := range canon {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(canon[name])
	}
	return b.String()
}

// canonicalize trims and lowercases filter values and drops empty ones.
func canonicalize(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	out := make(map[string]string, len(filters))
	for name, value := range filters {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(name))] = value
	}
	return out
}
