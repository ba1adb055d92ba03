// Package edgartypes holds the data model shared across the pipeline stages:
// filings as fetched from SEC EDGAR, the section extracted from each filing,
// and the per-company artifacts written to disk.
package edgartypes

import "time"

// Filing identifies one annual filing by CIK and accession number, carrying
// the raw bytes of its primary document plus the metadata needed to derive
// its place in a company's year-indexed series.
type Filing struct {
	CIK             string
	AccessionNumber string
	FormType        string // "10-K", "10-K/A", "20-F"
	FilingDate      time.Time
	ReportDate      time.Time
	PrimaryDocument string
	HTML            []byte

	// SectionYear is the integer year this filing represents in the
	// company's series. Zero means not yet assigned.
	SectionYear int
}

// ExtractMethod names which extraction path produced a SectionExtract.
type ExtractMethod string

const (
	MethodHypertextAnchor    ExtractMethod = "hypertext-anchor"
	MethodTextScored         ExtractMethod = "text-scored"
	MethodRiskFactorsFallback ExtractMethod = "risk-factors-fallback"
	MethodNotFound           ExtractMethod = "not-found"
	MethodNoHypertext        ExtractMethod = "no-hypertext"
)

// SectionExtract is the S1 extractor's output for one filing.
type SectionExtract struct {
	Text          string
	Paragraphs    []string
	Confidence    float64
	Method        ExtractMethod
	EndMarkerUsed string // "1C", "1B", "2", "4A", "4B", "4", or "" if none found
	Warnings      []string
	LengthChars   int
	HasItem1C     bool
}

// SectionYear is one company-year's valid or invalid section record.
// A SectionYear is valid iff Text is non-empty and Confidence >= 0.5.
type SectionYear struct {
	Year       int
	Text       string
	Paragraphs []string
	Confidence float64
}

// Valid reports whether this SectionYear passes the validity gate of §4.4/§8.
func (s SectionYear) Valid() bool {
	return s.Text != "" && s.Confidence >= 0.5
}

// TermCounts maps a lowercase term (single words, or multiword phrases
// joined by single ASCII spaces) to its non-negative occurrence count.
type TermCounts map[string]int

// ShiftTermStats carries the full per-term statistics for one year-pair,
// as computed by the S5 term-shift analyzer.
type ShiftTermStats struct {
	Term        string
	Score       float64
	Z           float64
	CountPrev   int
	CountCurr   int
	Per10kPrev  float64
	Per10kCurr  float64
	DeltaPer10k float64
	Distinctive bool
	Includes    []string // raw variants folded into this canonical term, if any
}

// ShiftTermOut is the rounded, JSON-emittable projection of a ShiftTermStats
// entry for one side (riser or faller) of a ShiftPair.
type ShiftTermOut struct {
	Term        string   `json:"term"`
	Score       float64  `json:"score"`
	Z           float64  `json:"z"`
	CountPrev   int      `json:"countPrev"`
	CountCurr   int      `json:"countCurr"`
	Per10kPrev  float64  `json:"per10kPrev"`
	Per10kCurr  float64  `json:"per10kCurr"`
	DeltaPer10k float64  `json:"deltaPer10k"`
	Distinctive bool     `json:"distinctive"`
	Includes    []string `json:"includes,omitempty"`
}

// ShiftPair is the S5 output for one adjacent pair of valid years.
type ShiftPair struct {
	From    int `json:"from"`
	To      int `json:"to"`
	Summary string `json:"summary"`

	TopRisers  []ShiftTermOut `json:"topRisers"`
	TopFallers []ShiftTermOut `json:"topFallers"`

	TopRisersAlt  []ShiftTermOut `json:"topRisersAlt,omitempty"`
	TopFallersAlt []ShiftTermOut `json:"topFallersAlt,omitempty"`
	SummaryAlt    string         `json:"summaryAlt,omitempty"`
}

// RepresentativeParagraph is one excerpt chosen by the S6 selector.
type RepresentativeParagraph struct {
	Year           int    `json:"year"`
	ParagraphIndex int    `json:"paragraphIndex"`
	Text           string `json:"text"`
}

// ExcerptPair is the S6 output for one adjacent pair of valid years.
type ExcerptPair struct {
	From                      int                       `json:"from"`
	To                        int                       `json:"to"`
	HighlightTerms            []string                  `json:"highlightTerms"`
	RepresentativeParagraphs  []RepresentativeParagraph `json:"representativeParagraphs"`
}

// CanonicalTermsMap is the compiled output of the canonical-terms
// specification: a flat variant -> concept lookup plus display labels.
type CanonicalTermsMap struct {
	VariantToConcept map[string]string
	ConceptLabels    map[string]string
}

// Fold looks up a normalized term and returns its concept's display label
// and whether a mapping was found.
func (m *CanonicalTermsMap) Fold(term string) (label string, ok bool) {
	if m == nil {
		return "", false
	}
	conceptID, found := m.VariantToConcept[term]
	if !found {
		return "", false
	}
	label, ok = m.ConceptLabels[conceptID]
	return label, ok
}
