// Package section implements the risk-factors section extractor (S1) and
// the text normalizer/paragraphizer (S2). Both are pure functions: given
// hypertext or already-normalized text, they return a SectionExtract with
// no side effects.
package section

import (
	"regexp"
	"strings"
)

var (
	wsRun        = regexp.MustCompile(`[ \t\f\v]+`)
	blankRun     = regexp.MustCompile(`\n{3,}`)
	hyphenWrap   = regexp.MustCompile(`(\p{L})-\n(\p{L})`)
	bulletLine   = regexp.MustCompile(`(?m)^[ \t]*([•◦▪∙·-])[ \t]+`)
	suffixFrag   = regexp.MustCompile(`(?i)^(mation|mations|tion|tions|sion|sions|ment|ments|ness|less|ance|ances|ence|ences|ing|ings|ity|ities|ative|atives|able|ably|ization|izations|tory|tories)\b`)
	shortWordSet = map[string]bool{}
)

func init() {
	for _, w := range strings.Fields("a an and are as at be but by can did do for had has i if in is it its may not nor of on or our per the to us we who why you") {
		shortWordSet[w] = true
	}
}

const bulletSentinel = "\x00BULLET\x00"

// Normalize cleans whitespace, fixes line-wrap artifacts, and rewraps
// bullet lines so that a later paragraph split on blank lines behaves
// sensibly. This mirrors the normalize_whitespace step of the section
// extractor, generalized to handle bulleted EDGAR prose.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.NewReplacer(
		" ", " ", // non-breaking space
		"‘", "'", "’", "'",
		"“", "\"", "”", "\"",
		"–", "-", "—", "-",
		"…", "...",
	).Replace(text)

	// Re-join hyphenated line-wraps: "word-\nword" -> "wordword"
	text = hyphenWrap.ReplaceAllString(text, "$1$2")

	// Mark bullet lines with a sentinel so a following collapse of
	// newlines does not lose the bullet boundary.
	text = bulletLine.ReplaceAllString(text, bulletSentinel+"$1 ")

	lines := strings.Split(text, "\n")
	merged := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(line(lines, i), " \t")
		if i+1 < len(lines) {
			next := lines[i+1]
			if shouldMergeSplit(line, next) {
				merged = append(merged, line+next)
				i++
				continue
			}
		}
		merged = append(merged, line)
	}

	joined := strings.Join(merged, " ")
	joined = wsRun.ReplaceAllString(joined, " ")
	joined = strings.ReplaceAll(joined, bulletSentinel, "\n")
	joined = wsRun.ReplaceAllString(joined, " ")
	joined = blankRun.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

func line(lines []string, i int) string { return lines[i] }

// shouldMergeSplit decides whether the break between two adjacent physical
// lines is a line-wrap artifact (merge, no space) rather than a real
// paragraph or sentence break (retain a space). Per §4.2: merge where the
// split sits between a short token and a following lowercase word, unless
// one side is a common short word; also merge when the right side begins
// with a recognized morphological suffix fragment.
func shouldMergeSplit(left, right string) bool {
	left = strings.TrimRight(left, " \t")
	right = strings.TrimLeft(right, " \t")
	if left == "" || right == "" {
		return false
	}

	if suffixFrag.MatchString(right) {
		return true
	}

	leftWords := strings.Fields(left)
	if len(leftWords) == 0 {
		return false
	}
	lastWord := leftWords[len(leftWords)-1]
	rightWords := strings.Fields(right)
	if len(rightWords) == 0 {
		return false
	}
	firstWord := rightWords[0]

	isShortToken := len(lastWord) <= 3 && isAllLetters(lastWord)
	isLowerWord := isAllLetters(firstWord) && firstWord == strings.ToLower(firstWord)
	if !isShortToken || !isLowerWord {
		return false
	}
	if shortWordSet[strings.ToLower(lastWord)] || shortWordSet[strings.ToLower(firstWord)] {
		return false
	}
	return true
}

func isAllLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// SplitParagraphs splits normalized text on runs of two-or-more newlines,
// retaining only paragraphs with at least minChars characters.
func SplitParagraphs(text string, minChars int) []string {
	if minChars <= 0 {
		minChars = 200
	}
	chunks := blankSplit(text)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if len(c) >= minChars {
			out = append(out, c)
		}
	}
	return out
}

var blankSplitRe = regexp.MustCompile(`\n{2,}`)

func blankSplit(text string) []string {
	return blankSplitRe.Split(text, -1)
}
