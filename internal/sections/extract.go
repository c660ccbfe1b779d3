// Package sections locates labelled blocks (SKILLS, EXPERIENCE, ...) in plain resume text.
//
// Extraction is a best-effort heuristic, not a parser. A section starts at the
// first case-insensitive occurrence of its label and runs until the next line
// that begins with an uppercase ASCII letter. Only exact-case copies of the
// label are stripped from the result. Known failure modes:
//   - a label that also appears earlier in body text (or inside another word)
//     anchors the section at that earlier position;
//   - lowercase or bullet-prefixed headers do not terminate the previous section;
//   - multi-line bodies stop at the first line starting with a capital letter;
//   - a title-case header ("Skills") stays in the text of an upper-case label;
//   - an exact-case label inside body words is cut out of those words;
//   - multi-column PDF layouts interleave sections after text extraction.
package sections

import (
	"regexp"
	"strings"
	"sync"
)

// boundaryPattern matches the start of the next line beginning with an uppercase letter.
var boundaryPattern = regexp.MustCompile(`\n[A-Z]`)

var (
	labelCacheMu sync.RWMutex
	labelCache   = make(map[string]*regexp.Regexp)
)

// labelPattern returns a case-insensitive literal matcher for label.
func labelPattern(label string) *regexp.Regexp {
	labelCacheMu.RLock()
	re, ok := labelCache[label]
	labelCacheMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))

	labelCacheMu.Lock()
	labelCache[label] = re
	labelCacheMu.Unlock()
	return re
}

// Extract returns the text of the section headed by label with surrounding
// whitespace trimmed. It returns "" when the label does not appear in text.
// Only the first occurrence of the label anchors the section. Every copy of
// label in its exact case is removed from the section, so a "Skills" header
// found by the label "SKILLS" stays part of the text.
func Extract(text, label string) string {
	if text == "" || strings.TrimSpace(label) == "" {
		return ""
	}

	loc := labelPattern(label).FindStringIndex(text)
	if loc == nil {
		return ""
	}

	// Whitespace directly after the header belongs to the header, so a
	// boundary is only searched for once the body has started.
	rest := text[loc[1]:]
	bodyStart := loc[1] + len(rest) - len(strings.TrimLeft(rest, " \t\r\n\v\f"))
	end := len(text)
	if m := boundaryPattern.FindStringIndex(text[bodyStart:]); m != nil {
		end = bodyStart + m[0]
	}

	return strings.TrimSpace(strings.ReplaceAll(text[loc[0]:end], label, ""))
}

// ExtractAll runs Extract for each label and returns the results keyed by label.
func ExtractAll(text string, labels []string) map[string]string {
	out := make(map[string]string, len(labels))
	for _, label := range labels {
		out[label] = Extract(text, label)
	}
	return out
}
