// Package tags rewrites placeholder tag pairs of the form
//
//	<!-- key -->value<!-- key -->
//
// inside a line-oriented document. The tag markers are preserved verbatim
// and only the framed value is swapped, so the rewrite is safely repeatable.
package tags

import "strings"

const (
	// OpenDelim starts a tag marker.
	OpenDelim = "<!-- "
	// CloseDelim ends a tag marker.
	CloseDelim = " -->"
)

// Store maps placeholder keys to their replacement values. Keys present in
// the store but absent from the document are harmless; keys present in the
// document but absent from the store are skipped.
type Store map[string]string

// Engine locates tag pairs and swaps their enclosed values.
// Malformed tags (unmatched delimiter, non-matching key pair, stale value)
// never produce an error - the affected span is left untouched.
type Engine struct{}

// NewEngine creates a new tag engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply rewrites every line of the document against the store and returns
// the new lines. Line order is preserved and lines are never merged or
// reordered. A tag pair never spans lines.
func (e *Engine) Apply(lines []string, store Store) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = e.ApplyLine(line, store)
	}
	return result
}

// ApplyLine rewrites a single line. Lines without an open delimiter are
// returned unchanged (fast path). A line may contain more than one tag
// pair, including back-to-back pairs.
func (e *Engine) ApplyLine(line string, store Store) string {
	if !strings.Contains(line, OpenDelim) {
		return line
	}

	// Splitting on the open delimiter yields segments S0..Sn; S0 is the
	// prefix before the first marker and never starts a tag. Every pair
	// of consecutive segments is one candidate two-marker window.
	segments := strings.Split(line, OpenDelim)

	for i := 1; i+1 < len(segments); i++ {
		key, value, ok := scanWindow(segments[i], segments[i+1])
		if !ok {
			continue
		}
		line = e.replaceTag(line, key, value, store)
	}

	return line
}

// scanState tracks progress through one candidate tag window.
type scanState int

const (
	// scanIdle: no key/value pending yet.
	scanIdle scanState = iota
	// scanKeyOpen: an opening "key -->value" segment was seen; waiting
	// for a segment that closes the same key.
	scanKeyOpen
	// scanConfirmed: the window closed with the pending key.
	scanConfirmed
)

// scanWindow runs a window's two segments through a small state machine and
// reports the confirmed key/value pair, if any. A lone open delimiter, a
// key with no matching close, or a window straddling two unrelated tags
// yields no match.
func scanWindow(opening, closing string) (key, value string, ok bool) {
	state := scanIdle

	for _, segment := range [2]string{opening, closing} {
		if !strings.Contains(segment, CloseDelim) {
			return "", "", false
		}

		parts := strings.Split(segment, CloseDelim)

		switch state {
		case scanIdle:
			// The opening segment must split into exactly key and
			// value; values containing the close delimiter are
			// conservatively skipped.
			if len(parts) != 2 {
				return "", "", false
			}
			key, value = parts[0], parts[1]
			state = scanKeyOpen
		case scanKeyOpen:
			// The closing segment must reproduce the pending key,
			// otherwise the window straddles two unrelated tags.
			if parts[0] != key {
				return "", "", false
			}
			state = scanConfirmed
		}
	}

	return key, value, state == scanConfirmed
}

// replaceTag swaps the value framed by the key's markers with the store's
// current value, leaving both marker occurrences untouched. When the key is
// absent from the store, or the literal marker+value+marker substring is
// not found (stale value, or a value that itself contains a delimiter), the
// line is returned unchanged.
func (e *Engine) replaceTag(line, key, value string, store Store) string {
	replacement, ok := store[key]
	if !ok {
		return line
	}

	marker := OpenDelim + key + CloseDelim
	old := marker + value + marker

	idx := strings.Index(line, old)
	if idx < 0 {
		return line
	}

	return line[:idx] + marker + replacement + marker + line[idx+len(old):]
}
