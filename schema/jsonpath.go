package schema

import "strings"

// PathCanonicalizer accumulates the canonical-name map §4.5 step 1
// builds while walking a JSON field's encoded sub-paths: both the
// escaped and unescaped spellings of a path resolve to the same
// canonical (escaped) full name.
type PathCanonicalizer struct {
	canonical map[string]string
}

// NewPathCanonicalizer returns an empty canonicalizer.
func NewPathCanonicalizer() *PathCanonicalizer {
	return &PathCanonicalizer{canonical: make(map[string]string)}
}

// Canonicalize joins fieldName and jsonPath per §4.3's dot rules,
// records both spellings in the map, and returns the canonical full
// name.
//
// When expandDots is false and jsonPath contains '.', every '.' in the
// path is escaped ("\.") before concatenation, so it is not mistaken
// for a field/sub-path separator later. When expandDots is true, '.'
// is left as the structural separator it already is.
func (c *PathCanonicalizer) Canonicalize(fieldName, jsonPath string, expandDots bool) string {
	escaped := jsonPath
	if !expandDots && strings.Contains(jsonPath, ".") {
		escaped = strings.ReplaceAll(jsonPath, ".", `\.`)
	}

	full := fieldName + "." + escaped
	unescaped := fieldName + "." + jsonPath

	c.canonical[full] = full
	c.canonical[unescaped] = full

	return full
}

// Resolve looks up name's canonical spelling, returning name itself if
// it was never registered (§4.5 step 2: "redirect to canonical form via
// the map built in step 1").
func (c *PathCanonicalizer) Resolve(name string) string {
	if canon, ok := c.canonical[name]; ok {
		return canon
	}

	return name
}
