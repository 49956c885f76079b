package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RobotMatcher flags components whose name or category contains one of a
// set of keywords, ignoring case. Latin keywords must start a word, so
// "ur30" does not match "Fluor30". Hebrew keywords match anywhere since
// the language prefixes articles and prepositions to the word.
type RobotMatcher struct {
	keywords []string
}

// NewRobotMatcher builds a matcher over keywords. Blank keywords are dropped.
func NewRobotMatcher(keywords []string) *RobotMatcher {
	m := &RobotMatcher{}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	return m
}

// Match reports whether name or category contains a keyword.
func (m *RobotMatcher) Match(name, category string) bool {
	if m == nil {
		return false
	}
	name = strings.ToLower(name)
	category = strings.ToLower(category)
	for _, k := range m.keywords {
		if containsKeyword(name, k) || containsKeyword(category, k) {
			return true
		}
	}
	return false
}

func containsKeyword(s, k string) bool {
	if !isASCII(k) {
		return strings.Contains(s, k)
	}
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], k)
		if i < 0 {
			return false
		}
		i += from
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if i == 0 || !(unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return true
		}
		from = i + 1
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
