package scoring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitAlways are punctuation characters that always form their own token.
const splitAlways = ";@#$%&?!()[]{}<>\"`"

// clitics are English contraction suffixes split from the word they attach to.
var clitics = []string{"n't", "'ll", "'re", "'ve", "'s", "'m", "'d"}

// termPattern matches runs of word characters; terms shorter than two runes are ignored.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize splits text into word and punctuation tokens, roughly following
// Penn Treebank conventions: punctuation is separated from words, commas and
// colons only when they are not inside a number, a trailing period is split
// off, and contraction suffixes become separate tokens ("don't" -> "do", "n't").
// Text is not lowercased.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/4)
	for _, chunk := range strings.Fields(separatePunctuation(text)) {
		tokens = appendWordTokens(tokens, chunk)
	}
	return tokens
}

// separatePunctuation surrounds standalone punctuation with spaces.
func separatePunctuation(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/8)

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case strings.ContainsRune(splitAlways, r):
			sb.WriteRune(' ')
			sb.WriteRune(r)
			sb.WriteRune(' ')
		case r == ',' || r == ':':
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) && i > 0 && unicode.IsDigit(runes[i-1]) {
				sb.WriteRune(r)
			} else {
				sb.WriteRune(' ')
				sb.WriteRune(r)
				sb.WriteRune(' ')
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// appendWordTokens splits trailing periods and clitics off a whitespace-free chunk.
func appendWordTokens(tokens []string, chunk string) []string {
	trailing := 0
	for strings.HasSuffix(chunk, ".") && len(chunk) > 1 {
		chunk = chunk[:len(chunk)-1]
		trailing++
	}

	for _, c := range clitics {
		if len(chunk) > len(c) && strings.HasSuffix(chunk, c) {
			tokens = append(tokens, chunk[:len(chunk)-len(c)], chunk[len(chunk)-len(c):])
			chunk = ""
			break
		}
	}
	if chunk != "" {
		tokens = append(tokens, chunk)
	}

	if trailing > 0 {
		tokens = append(tokens, strings.Repeat(".", trailing))
	}
	return tokens
}

// isAlnum reports whether s is non-empty and made only of letters and digits.
func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// FilterTokens lowercases and tokenizes text, dropping stop words and any
// token that is not purely alphanumeric.
func FilterTokens(text string) []string {
	raw := Tokenize(strings.ToLower(text))
	filtered := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopWord(tok) || !isAlnum(tok) {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// terms splits a document into vocabulary terms of at least two word characters.
// Case is preserved.
func terms(doc string) []string {
	matches := termPattern.FindAllString(doc, -1)
	out := matches[:0]
	for _, m := range matches {
		if utf8.RuneCountInString(m) >= 2 {
			out = append(out, m)
		}
	}
	return out
}
