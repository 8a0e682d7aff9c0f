// Package acord implements the ACORD 25 text heuristics: section splitting,
// fuzzy table parsing, label-anchored field extraction and result assembly.
// Input is noisy OCR text with no layout guarantees, so everything here is
// approximate matching and proximity scoring rather than exact parsing.
package acord

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// HeaderMap maps a logical column name to its accepted label variants. All
// variants for a key are tried and the best match wins.
type HeaderMap map[string][]string

// TableParseOptions tunes matching strictness and false-positive suppression.
// The zero value takes the defaults below.
type TableParseOptions struct {
	HeaderSimilarityMin float64 // 0..1
	MinPlausibleAmount  float64 // amounts below this are treated as noise
}

const (
	DefaultHeaderSimilarityMin = 0.55
	DefaultMinPlausibleAmount  = 100000

	// maxRowLookahead bounds how far below the header row amounts are
	// searched for before assuming the table has ended.
	maxRowLookahead = 12
)

func (o TableParseOptions) withDefaults() TableParseOptions {
	if o.HeaderSimilarityMin <= 0 {
		o.HeaderSimilarityMin = DefaultHeaderSimilarityMin
	}
	if o.MinPlausibleAmount <= 0 {
		o.MinPlausibleAmount = DefaultMinPlausibleAmount
	}
	return o
}

var (
	spaceRE    = regexp.MustCompile(`\s+`)
	nonAlnumRE = regexp.MustCompile(`[^a-z0-9\s]`)
	tokenRE    = regexp.MustCompile(`\S+`)

	// Lines opening with these markers belong to another part of the form;
	// the row scan must not bleed into them.
	rowStopRE = regexp.MustCompile(`(?i)^\s*(producer|insured|certificate holder|policy|coverages|automobile|umbrella|excess)\b`)
)

func normalizeLine(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// normalizeLines splits text into trimmed, whitespace-collapsed, non-empty lines.
func normalizeLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = normalizeLine(strings.TrimSuffix(l, "\r"))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// onlyText lowercases and strips everything but letters, digits and spaces,
// so OCR punctuation noise does not distort edit distances.
func onlyText(s string) string {
	return nonAlnumRE.ReplaceAllString(strings.ToLower(normalizeLine(s)), "")
}

// Similarity scores how close a candidate line is to an expected label:
// 1 - editDistance/maxLen over normalized alphanumeric text. An exact label
// scores 1.0.
func Similarity(a, b string) float64 {
	na, nb := onlyText(a), onlyText(b)
	max := len(na)
	if len(nb) > max {
		max = len(nb)
	}
	if max == 0 {
		max = 1
	}
	d := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(d)/float64(max)
}

// ParseMoney parses a monetary token, tolerating currency symbols and OCR
// junk around the digits. Returns false when no number remains.
func ParseMoney(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s := strings.ReplaceAll(b.String(), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// measureHeaderColumns scores every expected column against one line and
// returns the estimated horizontal position of each column that passes the
// similarity threshold. When the best variant is present verbatim its
// substring index is used; otherwise the line midpoint stands in, since a
// fuzzy hit gives no reliable offset.
func measureHeaderColumns(headerLine string, headers HeaderMap, opts TableParseOptions) map[string]int {
	cols := make(map[string]int)
	lower := strings.ToLower(headerLine)

	for key, variants := range headers {
		bestSim := -1.0
		bestX := 0
		for _, cand := range variants {
			x := strings.Index(lower, strings.ToLower(cand))
			sim := Similarity(headerLine, cand)
			if x >= 0 {
				// A verbatim label counts as an exact match even when the
				// line carries several column labels, where whole-line edit
				// distance would dilute the score.
				sim = 1.0
			} else {
				x = len(headerLine) / 2
			}
			if sim > bestSim {
				bestSim = sim
				bestX = x
			}
		}
		if bestSim >= opts.HeaderSimilarityMin {
			cols[key] = bestX
		}
	}
	return cols
}

type headerHit struct {
	index   int
	columns map[string]int
}

// detectHeaderLine picks the line matching the most expected columns
// (minimum 2). Ties keep the topmost candidate.
func detectHeaderLine(lines []string, headers HeaderMap, opts TableParseOptions) *headerHit {
	bestIdx := -1
	bestScore := 0
	var bestCols map[string]int

	for i, line := range lines {
		cols := measureHeaderColumns(line, headers, opts)
		if len(cols) > bestScore {
			bestScore = len(cols)
			bestIdx = i
			bestCols = cols
		}
	}
	if bestIdx >= 0 && bestScore >= 2 {
		return &headerHit{index: bestIdx, columns: bestCols}
	}
	return nil
}

type amountToken struct {
	value float64
	x     int
}

// pickAmountForColumn returns the plausible amount on the line whose start
// offset is closest to the column's estimated position.
func pickAmountForColumn(line string, colX int, minAmount float64) (float64, bool) {
	var candidates []amountToken
	for _, loc := range tokenRE.FindAllStringIndex(line, -1) {
		v, ok := ParseMoney(line[loc[0]:loc[1]])
		if !ok || v < minAmount {
			continue
		}
		candidates = append(candidates, amountToken{value: v, x: loc[0]})
	}
	if len(candidates) == 0 {
		return 0, false
	}

	best := candidates[0]
	bestDist := abs(best.x - colX)
	for _, c := range candidates[1:] {
		if d := abs(c.x - colX); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best.value, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ParseTable locates the header row of a liability table inside one section's
// text and assigns the nearest plausible amount on the following rows to each
// detected column. Columns with no confident match are simply absent from the
// result; the first qualifying row for a column wins.
func ParseTable(text string, headers HeaderMap, options TableParseOptions) map[string]float64 {
	opts := options.withDefaults()
	out := make(map[string]float64)

	lines := normalizeLines(text)
	header := detectHeaderLine(lines, headers, opts)
	if header == nil {
		return out
	}

	end := header.index + 1 + maxRowLookahead
	if end > len(lines) {
		end = len(lines)
	}
	for i := header.index + 1; i < end; i++ {
		line := lines[i]
		if rowStopRE.MatchString(line) {
			break
		}
		for key, x := range header.columns {
			if _, done := out[key]; done {
				continue
			}
			if amt, ok := pickAmountForColumn(line, x, opts.MinPlausibleAmount); ok {
				out[key] = amt
			}
		}
	}

	return out
}
