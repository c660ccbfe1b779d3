// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Category identifies one of the fixed resume sections that gets scored.
type Category string

// Scored resume sections, in report order.
const (
	CategorySkills       Category = "SKILLS"
	CategoryExperience   Category = "EXPERIENCE"
	CategoryAchievements Category = "ACHIEVEMENTS"
	CategoryProjects     Category = "PROJECTS"
)

// Categories lists every scored section in the order they appear in a report.
var Categories = []Category{
	CategorySkills,
	CategoryExperience,
	CategoryAchievements,
	CategoryProjects,
}

// Label returns the section header searched for in resume text.
func (c Category) Label() string {
	return string(c)
}

// KeywordKey returns the persisted key for this category, e.g. "SKILLS_KEYWORDS".
func (c Category) KeywordKey() string {
	return string(c) + "_KEYWORDS"
}

// Title returns a display name such as "Skills".
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return ""
	}
	out := []byte(s)
	for i := 1; i < len(out); i++ {
		if out[i] >= 'A' && out[i] <= 'Z' {
			out[i] += 'a' - 'A'
		}
	}
	return string(out)
}

// ParseCategory converts a section label or keyword key, in any case, to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, c.Label()) || strings.EqualFold(s, c.KeywordKey()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown section category: %q", s)
}

// KeywordSet maps a persisted keyword key (SKILLS_KEYWORDS, ...) to its
// ordered reference terms. It is loaded once and treated as read-only.
type KeywordSet map[string][]string

// Keywords returns the reference terms for a category, or nil if absent.
func (ks KeywordSet) Keywords(c Category) []string {
	if ks == nil {
		return nil
	}
	return ks[c.KeywordKey()]
}

// Validate checks that every category has an entry and that no term is blank.
func (ks KeywordSet) Validate() error {
	for _, c := range Categories {
		terms, ok := ks[c.KeywordKey()]
		if !ok {
			return fmt.Errorf("keyword set missing %s", c.KeywordKey())
		}
		for i, term := range terms {
			if term == "" {
				return fmt.Errorf("keyword set %s[%d] is empty", c.KeywordKey(), i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a shared set.
func (ks KeywordSet) Clone() KeywordSet {
	if ks == nil {
		return nil
	}
	out := make(KeywordSet, len(ks))
	for k, v := range ks {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Only returns a copy holding just the keywords of category c.
func (ks KeywordSet) Only(c Category) KeywordSet {
	return KeywordSet{c.KeywordKey(): append([]string(nil), ks.Keywords(c)...)}
}

// DefaultKeywordSet returns the built-in keyword set written on first run.
func DefaultKeywordSet() KeywordSet {
	return KeywordSet{
		CategorySkills.KeywordKey():       {"python", "javascript", "react", "node.js", "machine learning", "data analysis"},
		CategoryExperience.KeywordKey():   {"developed", "built", "designed", "managed", "implemented", "led", "collaborated"},
		CategoryAchievements.KeywordKey(): {"award", "certification", "ranked", "published", "innovated", "honor"},
		CategoryProjects.KeywordKey():     {"project", "system", "platform", "application", "tool", "framework"},
	}
}
