package acord

import (
	"regexp"
	"strings"
)

// DateRE matches MM/DD/YYYY-style dates with a 20xx year, the only date shape
// accepted anywhere in a result.
var DateRE = regexp.MustCompile(`(0[1-9]|1[0-2])[/\-](0[1-9]|[12][0-9]|3[01])[/\-](20\d{2})`)

var (
	producerLabels = []*regexp.Regexp{regexp.MustCompile(`^producer\b`)}
	insuredLabels  = []*regexp.Regexp{regexp.MustCompile(`^insured\b`), regexp.MustCompile(`insured\s+name`)}
	holderLabels   = []*regexp.Regexp{regexp.MustCompile(`certificate\s+holder`)}
	effLabels      = []*regexp.Regexp{regexp.MustCompile(`policy\s+effective`), regexp.MustCompile(`effective\s+date`)}
	expLabels      = []*regexp.Regexp{regexp.MustCompile(`policy\s+expiration`), regexp.MustCompile(`expiration\s+date`)}

	holderStopRE = regexp.MustCompile(`^\s*(producer|insured|coverage|policy)\b`)
)

// LabelFields are the scalar fields recovered by label-anchored search.
// Empty string means the field was not found.
type LabelFields struct {
	Producer          string
	InsuredName       string
	CertificateHolder string
	EffectiveDate     string
	ExpirationDate    string
}

// FindDates returns every accepted date in the text, in document order.
func FindDates(text string) []string {
	return DateRE.FindAllString(text, -1)
}

func findLineIndex(lower []string, patterns []*regexp.Regexp) int {
	for i, l := range lower {
		for _, p := range patterns {
			if p.MatchString(l) {
				return i
			}
		}
	}
	return -1
}

// collectHolderBlock joins the label line with up to 3 following lines,
// stopping early at another section marker.
func collectHolderBlock(lines []string, holderIdx int) string {
	block := []string{lines[holderIdx]}
	for i := 1; i <= 3; i++ {
		j := holderIdx + i
		if j >= len(lines) {
			break
		}
		if holderStopRE.MatchString(strings.ToLower(lines[j])) {
			break
		}
		block = append(block, lines[j])
	}
	return normalizeLine(strings.Join(block, " "))
}

// firstDateAround searches a ±radius line window around idx for a date.
func firstDateAround(lines []string, idx, radius int) string {
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + radius + 1
	if end > len(lines) {
		end = len(lines)
	}
	dates := FindDates(strings.Join(lines[start:end], "\n"))
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}

// valueNearLabel reads the line after the label if one exists, else the label
// line itself; handles both same-line and next-line form layouts. The lines
// passed in are already blank-filtered, so a blank separator between label
// and value resolves to the next non-empty line.
func valueNearLabel(lines []string, idx int) string {
	if idx+1 < len(lines) && lines[idx+1] != "" {
		return lines[idx+1]
	}
	return lines[idx]
}

// ScanLabels recovers producer, insured name, certificate holder and the two
// policy dates from the full (non section-split) text by label-anchored
// window search.
//
// When a labeled date search fails, the fallback takes the first and second
// unlabeled dates in document order as effective/expiration. Forms carrying
// extra incidental dates (an issue date, say) can misassign here; this is a
// known limitation of the order-based heuristic.
func ScanLabels(fullText string) LabelFields {
	lines := normalizeLines(fullText)
	lower := make([]string, len(lines))
	for i, l := range lines {
		lower[i] = strings.ToLower(l)
	}

	var out LabelFields

	if idx := findLineIndex(lower, producerLabels); idx >= 0 {
		out.Producer = valueNearLabel(lines, idx)
	}
	if idx := findLineIndex(lower, insuredLabels); idx >= 0 {
		out.InsuredName = valueNearLabel(lines, idx)
	}
	if idx := findLineIndex(lower, holderLabels); idx >= 0 {
		out.CertificateHolder = collectHolderBlock(lines, idx)
	}

	if idx := findLineIndex(lower, effLabels); idx >= 0 {
		out.EffectiveDate = firstDateAround(lines, idx, 3)
	}
	if idx := findLineIndex(lower, expLabels); idx >= 0 {
		out.ExpirationDate = firstDateAround(lines, idx, 3)
	}
	if out.EffectiveDate == "" || out.ExpirationDate == "" {
		dates := FindDates(fullText)
		if out.EffectiveDate == "" && len(dates) > 0 {
			out.EffectiveDate = dates[0]
		}
		if out.ExpirationDate == "" && len(dates) > 1 {
			out.ExpirationDate = dates[1]
		}
	}

	return out
}
