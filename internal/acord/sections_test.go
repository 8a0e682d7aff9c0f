package acord_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coiscan/internal/acord"
	"coiscan/internal/domain"
)

func TestSplitSections_NoAnchorsFallsBackToGeneral(t *testing.T) {
	text := "PRODUCER\nACME Brokers\nsome other content"

	blocks := acord.SplitSections(text)

	assert.Equal(t, text, blocks[domain.SectionGeneral])
	assert.Equal(t, "", blocks[domain.SectionAuto])
	assert.Equal(t, "", blocks[domain.SectionUmbrella])
}

func TestSplitSections_PartitionsInAnchorOrder(t *testing.T) {
	text := strings.Join([]string{
		"ACORD 25 CERTIFICATE",
		"GENERAL LIABILITY",
		"gl row 1",
		"gl row 2",
		"AUTOMOBILE LIABILITY",
		"auto row 1",
		"UMBRELLA LIAB",
		"umb row 1",
	}, "\n")

	blocks := acord.SplitSections(text)

	assert.Equal(t, "GENERAL LIABILITY\ngl row 1\ngl row 2", blocks[domain.SectionGeneral])
	assert.Equal(t, "AUTOMOBILE LIABILITY\nauto row 1", blocks[domain.SectionAuto])
	assert.Equal(t, "UMBRELLA LIAB\numb row 1", blocks[domain.SectionUmbrella])

	// Blocks are disjoint: no line appears in two sections.
	seen := map[string]int{}
	for _, id := range []domain.SectionID{domain.SectionGeneral, domain.SectionAuto, domain.SectionUmbrella} {
		for _, l := range strings.Split(blocks[id], "\n") {
			seen[l]++
		}
	}
	for line, n := range seen {
		assert.Equal(t, 1, n, "line %q assigned twice", line)
	}
}

func TestSplitSections_RepeatedAnchorConcatenates(t *testing.T) {
	text := strings.Join([]string{
		"UMBRELLA LIAB",
		"first block",
		"GENERAL LIABILITY",
		"gl row",
		"EXCESS LIABILITY",
		"second block",
	}, "\n")

	blocks := acord.SplitSections(text)

	assert.Equal(t, "UMBRELLA LIAB\nfirst block\nEXCESS LIABILITY\nsecond block", blocks[domain.SectionUmbrella])
	assert.Equal(t, "GENERAL LIABILITY\ngl row", blocks[domain.SectionGeneral])
}

func TestParseSections_EndToEnd(t *testing.T) {
	text := strings.Join([]string{
		"GENERAL LIABILITY",
		"EACH OCCURRENCE  GENERAL AGGREGATE",
		"$1,000,000        $2,000,000",
		"UMBRELLA LIAB",
		"EACH OCCURRENCE  AGGREGATE",
		"$5,000,000  $5,000,000",
	}, "\n")

	limits := acord.ParseSections(text, acord.TableParseOptions{})

	require.Contains(t, limits, domain.SectionGeneral)
	assert.Equal(t, 1000000.0, limits[domain.SectionGeneral]["eachOccurrence"])
	assert.Equal(t, 2000000.0, limits[domain.SectionGeneral]["generalAggregate"])
	assert.Equal(t, 5000000.0, limits[domain.SectionUmbrella]["umbrellaEachOccurrence"])
	assert.Empty(t, limits[domain.SectionAuto])
}

func TestParseSections_NoAnchorsNoHeadersYieldsEmptyLimits(t *testing.T) {
	text := "PRODUCER\nACME Brokers\nnothing tabular here"

	limits := acord.ParseSections(text, acord.TableParseOptions{})

	for _, id := range []domain.SectionID{domain.SectionGeneral, domain.SectionAuto, domain.SectionUmbrella} {
		assert.Empty(t, limits[id])
	}
}
