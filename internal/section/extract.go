package section

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leibenjamin/sec-narrative-drift/internal/edgartypes"
)

var (
	item1aHeading     = regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*1\s*\.?\s*a\b`)
	item3dHeading     = regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*3\s*\.?\s*d\b`)
	item3Heading      = regexp.MustCompile(`(?mi)^\s*item\s*3\b`)
	item1cHeading     = regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*1\s*\.?\s*c\b`)
	item1aRiskHeading = regexp.MustCompile(`(?mi)^\s*item\s*1\s*\.?\s*a\b.*risk\s+factors?`)
	item3RiskHeading  = regexp.MustCompile(`(?mi)^\s*item\s*3\b.*risk\s+factors?`)
	anchorItem1a      = regexp.MustCompile(`(?i)item\s*1\s*\.?\s*a`)
	anchorItem3d      = regexp.MustCompile(`(?i)item\s*3\s*\.?\s*d`)
	anchorItem3       = regexp.MustCompile(`(?i)item\s*3\b`)

	riskFactors        = regexp.MustCompile(`(?i)\brisk\s+factors?\b`)
	riskFactorsSloppy  = regexp.MustCompile(`(?i)r\s*i\s*s\s*k\s+f\s*a\s*c\s*t\s*o\s*r\s*s`)
	riskFactorsHeading = regexp.MustCompile(`(?mi)^\s*risk\s+factors?\b`)
	headingLine        = regexp.MustCompile(`(?i)^(item\s+\d|risk factors|part\s+[ivx]+)\b`)

	tocLine = regexp.MustCompile(`(?i)^item\s+\d`)
)

var modalTerms = map[string]bool{"may": true, "could": true, "adversely": true}

type marker struct {
	label   string
	pattern *regexp.Regexp
}

var endMarkers10K = []marker{
	{"1C", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*1\s*\.?\s*c\b`)},
	{"1B", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*1\s*\.?\s*b\b`)},
	{"2", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*2\b`)},
}

var endMarkers20F = []marker{
	{"4A", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*4\s*a\b`)},
	{"4B", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*4\s*b\b`)},
	{"4", regexp.MustCompile(`(?mi)(^|\n\n+)\s*item\s*4\b`)},
}

// headingStartIndex finds where "item" begins within a heading regex
// match, since the match itself may include a leading blank-line prefix.
func headingStartIndex(text string, start, end int) int {
	token := strings.ToLower(text[start:end])
	rel := strings.LastIndex(token, "item")
	if rel < 0 {
		return start
	}
	return start + rel
}

func containsRiskFactors(s string) bool {
	return riskFactors.MatchString(s) || riskFactorsSloppy.MatchString(s)
}

func findEndMarker(text string, startIdx int, markers []marker) (int, string) {
	endIdx := -1
	endMarker := ""
	searchFrom := startIdx + 1
	if searchFrom > len(text) {
		searchFrom = len(text)
	}
	for _, m := range markers {
		loc := m.pattern.FindStringIndex(text[searchFrom:])
		if loc == nil {
			continue
		}
		idx := searchFrom + loc[0]
		if endIdx == -1 || idx < endIdx {
			endIdx = idx
			endMarker = m.label
		}
	}
	if endIdx == -1 {
		return -1, ""
	}
	return endIdx, endMarker
}

func tocClusterPenalty(sectionHead string) bool {
	lines := nonEmptyLines(sectionHead)
	if len(lines) > 30 {
		lines = lines[:30]
	}
	count := 0
	for _, l := range lines {
		if tocLine.MatchString(l) {
			count++
		}
	}
	return count >= 4
}

func nonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		t := strings.TrimSpace(l)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func headingDensityBonus(s string) float64 {
	lines := nonEmptyLines(s)
	if len(lines) == 0 {
		return 0
	}
	headingLike := 0
	for _, l := range lines {
		if len(l) <= 80 && (isUpper(l) || headingLine.MatchString(l)) {
			headingLike++
		}
	}
	density := float64(headingLike) / float64(len(lines))
	if headingLike >= 6 && density >= 0.03 {
		return 0.1
	}
	return 0
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

var wordRe = regexp.MustCompile(`[a-z]+`)

func modalityBonus(s string) float64 {
	lower := strings.ToLower(s)
	words := wordRe.FindAllString(lower, -1)
	if len(words) == 0 {
		return 0
	}
	modalCount := 0
	for _, w := range words {
		if modalTerms[w] {
			modalCount++
		}
	}
	modalCount += strings.Count(lower, "subject to")
	per1k := float64(modalCount) / (float64(len(words)) / 1000.0)
	if per1k >= 8 {
		return 0.2
	}
	if per1k >= 4 {
		return 0.1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scoreCandidate implements the §4.1 scoring formula.
func scoreCandidate(text string, startIdx, endIdx, docLength int) (float64, []string) {
	var warns []string
	length := endIdx - startIdx
	if length < 0 {
		length = 0
	}

	lengthBonus := 0.0
	switch {
	case length >= 15000 && length <= 400000:
		lengthBonus = 0.2
	case length < 8000:
		lengthBonus = -0.25
		warns = append(warns, "length_out_of_band")
	default:
		lengthBonus = -0.1
		warns = append(warns, "length_out_of_band")
	}

	earlyPenalty := 0.0
	if docLength > 0 && float64(startIdx) < float64(docLength)*0.08 {
		earlyPenalty = -0.15
		warns = append(warns, "early_position_penalty")
	}

	headEnd := endIdx
	if startIdx+2500 < headEnd {
		headEnd = startIdx + 2500
	}
	tocPenalty := 0.0
	if tocClusterPenalty(text[startIdx:headEnd]) {
		tocPenalty = -0.2
		warns = append(warns, "toc_cluster_penalty")
	}

	section := text[startIdx:endIdx]
	mod := modalityBonus(section)
	head := headingDensityBonus(section)

	score := 0.5 + lengthBonus + earlyPenalty + tocPenalty + mod + head
	score = clamp(score, 0.05, 0.95)
	return score, warns
}

type textCandidate struct {
	section     string
	confidence  float64
	endMarker   string
	warnings    []string
	lengthChars int
}

// findTextScoredCandidate runs the full candidate search of the
// text-scored path and returns the highest-scoring candidate, or nil if
// no structured candidate exists at all.
func findTextScoredCandidate(text string) *textCandidate {
	docLength := len(text)

	var candidates []int
	seen := map[int]bool{}
	add := func(idx int) {
		if seen[idx] {
			return
		}
		seen[idx] = true
		candidates = append(candidates, idx)
	}

	foundItem1a := false
	for _, loc := range item1aHeading.FindAllStringIndex(text, -1) {
		startIdx := headingStartIndex(text, loc[0], loc[1])
		windowEnd := startIdx + 400
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		if !containsRiskFactors(text[startIdx:windowEnd]) {
			continue
		}
		add(startIdx)
		foundItem1a = true
	}

	found20F := false
	if len(candidates) == 0 {
		for _, loc := range item3dHeading.FindAllStringIndex(text, -1) {
			startIdx := headingStartIndex(text, loc[0], loc[1])
			windowEnd := startIdx + 400
			if windowEnd > len(text) {
				windowEnd = len(text)
			}
			if !containsRiskFactors(text[startIdx:windowEnd]) {
				continue
			}
			add(startIdx)
		}
		if len(candidates) > 0 {
			found20F = true
		} else {
			for _, loc := range item3Heading.FindAllStringIndex(text, -1) {
				startIdx := headingStartIndex(text, loc[0], loc[1])
				riskLoc := item3RiskHeading.FindStringIndex(text[startIdx:])
				if riskLoc == nil {
					continue
				}
				riskStart := startIdx + riskLoc[0]
				if riskStart-startIdx > 20000 {
					continue
				}
				add(riskStart)
			}
			if len(candidates) > 0 {
				found20F = true
			}
		}
	}

	for _, loc := range riskFactorsHeading.FindAllStringIndex(text, -1) {
		lineEnd := strings.IndexByte(text[loc[0]:], '\n')
		var line string
		if lineEnd == -1 {
			line = text[loc[0]:]
		} else {
			line = text[loc[0] : loc[0]+lineEnd]
		}
		if len(strings.TrimSpace(line)) > 80 {
			continue
		}
		add(loc[0])
	}

	var endMarkers []marker
	switch {
	case found20F:
		endMarkers = endMarkers20F
	case !foundItem1a:
		has10K := false
		for _, m := range endMarkers10K {
			if m.pattern.MatchString(text) {
				has10K = true
				break
			}
		}
		if has10K {
			endMarkers = endMarkers10K
		} else {
			endMarkers = endMarkers20F
		}
	default:
		endMarkers = endMarkers10K
	}

	var best *textCandidate
	for _, startIdx := range candidates {
		endIdx, endMarker := findEndMarker(text, startIdx, endMarkers)
		penalty := 0.0
		var localWarns []string
		if endIdx == -1 {
			endIdx = startIdx + 80000
			if endIdx > docLength {
				endIdx = docLength
			}
			localWarns = append(localWarns, "end_not_found")
			penalty = -0.2
		}
		sectionText := strings.TrimSpace(text[startIdx:endIdx])
		score, scoreWarns := scoreCandidate(text, startIdx, endIdx, docLength)
		score = clamp(score+penalty, 0.05, 0.95)
		warns := append(scoreWarns, localWarns...)
		cand := &textCandidate{
			section:     sectionText,
			confidence:  score,
			endMarker:   endMarker,
			warnings:    warns,
			lengthChars: len(sectionText),
		}
		if best == nil || cand.confidence > best.confidence {
			best = cand
		}
	}
	return best
}

// FromText runs the text-scored path followed by the risk-factors
// fallback, over already-normalized plain text (§4.1).
func FromText(text string) edgartypes.SectionExtract {
	hasItem1C := item1cHeading.MatchString(text)
	docLength := len(text)

	best := findTextScoredCandidate(text)
	if best != nil && best.confidence >= 0.5 {
		return edgartypes.SectionExtract{
			Text:          best.section,
			Paragraphs:    SplitParagraphs(best.section, 200),
			Confidence:    round2(best.confidence),
			Method:        edgartypes.MethodTextScored,
			EndMarkerUsed: best.endMarker,
			Warnings:      best.warnings,
			LengthChars:   best.lengthChars,
			HasItem1C:     hasItem1C,
		}
	}

	var warnings []string
	if best != nil {
		warnings = append(warnings, "low_confidence_item1a")
	}

	loc := riskFactors.FindStringIndex(text)
	if loc == nil {
		loc = riskFactorsSloppy.FindStringIndex(text)
	}
	if loc != nil {
		startIdx := loc[0]
		endIdx, endMarker := findEndMarker(text, startIdx, endMarkers10K)
		if endIdx == -1 {
			endIdx = startIdx + 80000
			if endIdx > docLength {
				endIdx = docLength
			}
			warnings = append(warnings, "end_not_found")
		}
		warnings = append(warnings, "fallback_risk_word_only")
		sectionText := strings.TrimSpace(text[startIdx:endIdx])
		return edgartypes.SectionExtract{
			Text:          sectionText,
			Paragraphs:    SplitParagraphs(sectionText, 200),
			Confidence:    0.35,
			Method:        edgartypes.MethodRiskFactorsFallback,
			EndMarkerUsed: endMarker,
			Warnings:      warnings,
			LengthChars:   len(sectionText),
			HasItem1C:     hasItem1C,
		}
	}

	return edgartypes.SectionExtract{
		Text:       "",
		Confidence: 0,
		Method:     edgartypes.MethodNotFound,
		Warnings:   []string{"item1a_not_found"},
		HasItem1C:  hasItem1C,
	}
}

func findAnchorStart(text, anchorText string, headingPattern *regexp.Regexp) (int, bool) {
	if loc := headingPattern.FindStringIndex(text); loc != nil {
		return loc[0], true
	}
	anchorLower := strings.ToLower(strings.TrimSpace(anchorText))
	anchorLower = wsRun.ReplaceAllString(anchorLower, " ")
	if anchorLower == "" {
		return 0, false
	}
	idx := strings.Index(strings.ToLower(text), anchorLower)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// FromHTML runs the hypertext-anchor path, falling back to FromText over
// the flattened document when no anchor yields an acceptable section
// (§4.1, §4.8).
func FromHTML(rawHTML string) edgartypes.SectionExtract {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return FromText(Normalize(rawHTML))
	}

	type anchorLink struct {
		sel      *goquery.Selection
		isItem3D bool
	}
	var links []anchorLink
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		t := strings.ToLower(s.Text())
		switch {
		case anchorItem1a.MatchString(t):
			links = append(links, anchorLink{s, false})
		case anchorItem3d.MatchString(t) || anchorItem3.MatchString(t):
			links = append(links, anchorLink{s, true})
		case strings.Contains(t, "risk factors"):
			links = append(links, anchorLink{s, false})
		}
	})

	text := HTMLToText(rawHTML)
	hasItem1C := item1cHeading.MatchString(text)

	var anchorWarnings []string
	for _, al := range links {
		href, ok := al.sel.Attr("href")
		if !ok || !strings.HasPrefix(href, "#") || len(href) <= 1 {
			continue
		}
		anchorID := href[1:]
		target, found := findByAnchorID(doc, anchorID)
		if !found {
			continue
		}
		anchorText := strings.TrimSpace(target.Text())
		if anchorText == "" {
			anchorText = strings.TrimSpace(al.sel.Text())
		}
		headingPattern := item1aRiskHeading
		endMarkers := endMarkers10K
		if al.isItem3D {
			headingPattern = item3RiskHeading
			endMarkers = endMarkers20F
		}
		startIdx, ok := findAnchorStart(text, anchorText, headingPattern)
		if !ok {
			continue
		}

		endIdx, endMarker := findEndMarker(text, startIdx, endMarkers)
		var localWarns []string
		confidence := 0.9
		if endIdx == -1 {
			endIdx = startIdx + 80000
			if endIdx > len(text) {
				endIdx = len(text)
			}
			localWarns = append(localWarns, "end_not_found")
			confidence -= 0.2
		}
		sectionText := strings.TrimSpace(text[startIdx:endIdx])
		if len(sectionText) < 8000 {
			localWarns = append(localWarns, "length_out_of_band")
			confidence -= 0.15
		}
		if len(text) > 0 && float64(startIdx) < float64(len(text))*0.08 {
			localWarns = append(localWarns, "early_position_penalty")
			confidence -= 0.1
		}
		headSnippet := sectionText
		if len(headSnippet) > 2500 {
			headSnippet = headSnippet[:2500]
		}
		if tocClusterPenalty(headSnippet) {
			localWarns = append(localWarns, "toc_cluster_penalty")
			confidence -= 0.15
		}
		confidence = clamp(confidence, 0.1, 0.95)
		if confidence < 0.5 || len(sectionText) < 8000 {
			if !containsString(anchorWarnings, "anchor_low_confidence") {
				anchorWarnings = append(anchorWarnings, "anchor_low_confidence")
			}
			continue
		}

		hasItem1CHere := hasItem1C
		if al.isItem3D {
			hasItem1CHere = false
		}
		return edgartypes.SectionExtract{
			Text:          sectionText,
			Paragraphs:    SplitParagraphs(sectionText, 200),
			Confidence:    round2(confidence),
			Method:        edgartypes.MethodHypertextAnchor,
			EndMarkerUsed: endMarker,
			Warnings:      localWarns,
			LengthChars:   len(sectionText),
			HasItem1C:     hasItem1CHere,
		}
	}

	anchorWarnings = append(anchorWarnings, "anchor_missing")
	result := FromText(text)
	result.Warnings = append(append([]string{}, anchorWarnings...), result.Warnings...)
	return result
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
