package section

import (
	"strings"
	"testing"

	"github.com/leibenjamin/sec-narrative-drift/internal/edgartypes"
)

func repeat(s string, n int) string {
	return strings.Repeat(s+" ", n)
}

func TestFromTextScoredConfidenceBand(t *testing.T) {
	body := repeat("our business may be adversely affected by competition and regulatory change.", 260)
	text := "ITEM 1A. RISK FACTORS\n\n" + body + "\n\nITEM 1B. UNRESOLVED STAFF COMMENTS\n\nNone."

	got := FromText(text)
	if got.Method != edgartypes.MethodTextScored {
		t.Fatalf("method = %q, want text-scored (warnings=%v)", got.Method, got.Warnings)
	}
	if got.EndMarkerUsed != "1B" {
		t.Fatalf("endMarkerUsed = %q, want 1B", got.EndMarkerUsed)
	}
	if got.Confidence < 0.5 || got.Confidence > 0.95 {
		t.Fatalf("confidence = %v, want within [0.5,0.95]", got.Confidence)
	}
}

func TestFromTextFallbackOnShortSection(t *testing.T) {
	text := "ITEM 1A. RISK FACTORS\n\nToo short to be a real section.\n\nITEM 1B. UNRESOLVED STAFF COMMENTS"
	got := FromText(text)
	if got.Method != edgartypes.MethodRiskFactorsFallback {
		t.Fatalf("method = %q, want risk-factors-fallback", got.Method)
	}
	if got.Confidence != 0.35 {
		t.Fatalf("confidence = %v, want 0.35", got.Confidence)
	}
	found := false
	for _, w := range got.Warnings {
		if w == "low_confidence_item1a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want low_confidence_item1a present", got.Warnings)
	}
}

func TestFromTextNotFound(t *testing.T) {
	text := "This filing discusses executive compensation and nothing else of note."
	got := FromText(text)
	if got.Method != edgartypes.MethodNotFound {
		t.Fatalf("method = %q, want not-found", got.Method)
	}
	if got.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", got.Confidence)
	}
}

func TestFromHTMLAnchorPath(t *testing.T) {
	body := repeat("cybersecurity incidents could adversely affect our operations and results.", 260)
	html := `<html><body>
<a href="#riskfactors">Item 1A. Risk Factors</a>
<div id="riskfactors">ITEM 1A. RISK FACTORS</div>
<p>` + body + `</p>
<div>ITEM 1B. UNRESOLVED STAFF COMMENTS</div>
</body></html>`

	got := FromHTML(html)
	if got.Method != edgartypes.MethodHypertextAnchor && got.Method != edgartypes.MethodTextScored {
		t.Fatalf("method = %q, want hypertext-anchor or text-scored fallback", got.Method)
	}
	if got.Text == "" {
		t.Fatalf("expected non-empty extracted text")
	}
}

func TestSplitParagraphsFiltersShort(t *testing.T) {
	text := strings.Repeat("x", 250) + "\n\ntoo short\n\n" + strings.Repeat("y", 210)
	got := SplitParagraphs(text, 200)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (got %v)", len(got), got)
	}
}

func TestNormalizeRejoinsHyphenWrap(t *testing.T) {
	got := Normalize("our compe-\ntitors are numerous and well capital-\nized.")
	if strings.Contains(got, "compe-") || strings.Contains(got, "capital-") {
		t.Fatalf("expected hyphen-wrap rejoin, got %q", got)
	}
	if !strings.Contains(got, "competitors") {
		t.Fatalf("expected rejoined 'competitors', got %q", got)
	}
}
