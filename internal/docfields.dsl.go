// Package internal holds the low-level scanning helpers behind the field
// declaration DSL.
package internal

import "strings"

// SplitModifiers splits a field declaration on commas, ignoring commas
// inside single, double or backtick quotes, so that separators like
// "sep by ','" survive intact. Empty and whitespace-only parts are
// dropped; the remaining parts are trimmed.
func SplitModifiers(dsl string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	for _, ch := range dsl {
		switch {
		case quote != 0:
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			current.WriteRune(ch)
		case ch == ',':
			parts = appendPart(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return appendPart(parts, current.String())
}

func appendPart(parts []string, part string) []string {
	part = strings.TrimSpace(part)
	if part == "" {
		return parts
	}
	return append(parts, part)
}

// CutKeyword splits a single modifier on a bare keyword ("of", "by")
// surrounded by whitespace, outside quotes. It returns the trimmed left
// and right sides and whether the keyword was found. Only the first
// occurrence counts.
func CutKeyword(modifier, keyword string) (left, right string, ok bool) {
	var quote rune
	runes := []rune(modifier)
	kw := []rune(keyword)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case isSpace(ch):
			j := i
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			if matchesAt(runes, j, kw) {
				end := j + len(kw)
				if end < len(runes) && isSpace(runes[end]) {
					l := strings.TrimSpace(string(runes[:i]))
					r := strings.TrimSpace(string(runes[end:]))
					if l != "" && r != "" {
						return l, r, true
					}
				}
			}
			i = j - 1
		}
	}
	return "", "", false
}

func matchesAt(runes []rune, at int, kw []rune) bool {
	if at+len(kw) > len(runes) {
		return false
	}
	for i, ch := range kw {
		if runes[at+i] != ch {
			return false
		}
	}
	return true
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
