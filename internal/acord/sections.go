package acord

import (
	"regexp"
	"sort"
	"strings"

	"coiscan/internal/domain"
)

// sectionDefs are the anchor patterns delimiting the liability sections.
// Kept as ordered data so new layouts can be added without touching the
// splitting logic.
var sectionDefs = []struct {
	id    domain.SectionID
	start *regexp.Regexp
}{
	{domain.SectionGeneral, regexp.MustCompile(`(?i)\bgeneral\s+liab(?:ility)?\b`)},
	{domain.SectionAuto, regexp.MustCompile(`(?i)\bautomobile\s+liab(?:ility)?\b|\bauto\s+liab\b`)},
	{domain.SectionUmbrella, regexp.MustCompile(`(?i)\bumbrella\b|\bexcess\s+liab(?:ility)?\b`)},
}

// Column labels expected per section. Variants cover abbreviations commonly
// produced by ACORD 25 layouts and OCR.
var (
	GeneralHeaders = HeaderMap{
		"eachOccurrence":    {"each occurrence", "occurrence each", "ea occ"},
		"damageToPremises":  {"damage to premises (ea occ)", "damage to premises"},
		"medExp":            {"med exp (any one person)", "medical expense"},
		"personalAdvInjury": {"personal & adv injury", "personal and advertising injury", "personal / advertising injury"},
		"generalAggregate":  {"general aggregate", "policy general aggregate", "gen aggregate", "gen agg"},
		"productsCompOpAgg": {"products - comp/op agg", "products completed operations aggregate", "prod & compl ops aggregate", "products comp/op agg"},
	}

	AutoHeaders = HeaderMap{
		"autoCombinedSingleLimit": {"combined single limit", "each accident", "csl"},
	}

	UmbrellaHeaders = HeaderMap{
		"umbrellaEachOccurrence": {"each occurrence", "each occ"},
		"umbrellaAggregate":      {"aggregate", "agg", "policy aggregate"},
	}
)

type sectionHit struct {
	idx int
	id  domain.SectionID
}

// SplitSections partitions full document text into the three liability
// blocks. Each block spans from its anchor line up to the next anchor of any
// section; a repeated anchor concatenates its blocks in encounter order.
// With no anchors at all the whole text lands in the general section, a safe
// degenerate fallback for forms the patterns don't recognize.
func SplitSections(fullText string) map[domain.SectionID]string {
	blocks := map[domain.SectionID]string{
		domain.SectionGeneral:  "",
		domain.SectionAuto:     "",
		domain.SectionUmbrella: "",
	}

	lines := strings.Split(strings.ReplaceAll(fullText, "\r\n", "\n"), "\n")

	var hits []sectionHit
	for i, line := range lines {
		for _, def := range sectionDefs {
			if def.start.MatchString(line) {
				hits = append(hits, sectionHit{idx: i, id: def.id})
			}
		}
	}
	if len(hits) == 0 {
		blocks[domain.SectionGeneral] = fullText
		return blocks
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].idx < hits[b].idx })

	for i, cur := range hits {
		end := len(lines)
		if i+1 < len(hits) {
			end = hits[i+1].idx
		}
		slice := strings.Join(lines[cur.idx:end], "\n")
		if blocks[cur.id] != "" {
			blocks[cur.id] += "\n"
		}
		blocks[cur.id] += slice
	}

	return blocks
}

// SectionLimits holds the per-section table parse results.
type SectionLimits map[domain.SectionID]map[string]float64

// ParseSections splits the text and runs the fuzzy table parser over each
// liability section with its expected headers.
func ParseSections(fullText string, opts TableParseOptions) SectionLimits {
	blocks := SplitSections(fullText)

	out := make(SectionLimits, 3)
	for id, headers := range map[domain.SectionID]HeaderMap{
		domain.SectionGeneral:  GeneralHeaders,
		domain.SectionAuto:     AutoHeaders,
		domain.SectionUmbrella: UmbrellaHeaders,
	} {
		if blocks[id] == "" {
			out[id] = map[string]float64{}
			continue
		}
		out[id] = ParseTable(blocks[id], headers, opts)
	}
	return out
}
