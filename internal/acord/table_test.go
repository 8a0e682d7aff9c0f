package acord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coiscan/internal/acord"
)

func TestParseTable_EmptyTextYieldsNoFields(t *testing.T) {
	out := acord.ParseTable("", acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)

	out = acord.ParseTable("\n \n\t\n", acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)
}

func TestParseTable_NoHeaderRowYieldsNoFields(t *testing.T) {
	text := "GENERAL LIABILITY\nsome narrative text\n$5,000,000"
	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)
}

func TestParseTable_HeaderAndAmounts(t *testing.T) {
	text := "GENERAL LIABILITY\n" +
		"EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"$1,000,000        $2,000,000\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})

	assert.Equal(t, 1000000.0, out["eachOccurrence"])
	assert.Equal(t, 2000000.0, out["generalAggregate"])
}

func TestParseTable_ImplausibleAmountsNeverSelected(t *testing.T) {
	text := "EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"$1,000  3  42\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)
}

func TestParseTable_MinAmountIsConfigurable(t *testing.T) {
	text := "EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"$50,000  $75,000\n"

	strict := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, strict)

	loose := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{MinPlausibleAmount: 10000})
	assert.Equal(t, 50000.0, loose["eachOccurrence"])
	assert.Equal(t, 75000.0, loose["generalAggregate"])
}

func TestParseTable_RowScanStopsAtSectionMarker(t *testing.T) {
	text := "EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"CERTIFICATE HOLDER\n" +
		"$1,000,000  $2,000,000\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)
}

func TestParseTable_FirstFoundWins(t *testing.T) {
	text := "EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"$1,000,000  $2,000,000\n" +
		"$9,000,000  $8,000,000\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Equal(t, 1000000.0, out["eachOccurrence"])
	assert.Equal(t, 2000000.0, out["generalAggregate"])
}

func TestParseTable_RowLookaheadIsBounded(t *testing.T) {
	text := "EACH OCCURRENCE  GENERAL AGGREGATE\n"
	for i := 0; i < 15; i++ {
		text += "filler line\n"
	}
	text += "$1,000,000  $2,000,000\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Empty(t, out)
}

func TestSimilarity_ExactLabelScoresOne(t *testing.T) {
	assert.Equal(t, 1.0, acord.Similarity("EACH OCCURRENCE", "each occurrence"))
	assert.Equal(t, 1.0, acord.Similarity("  each   occurrence ", "Each Occurrence"))
}

func TestSimilarity_ToleratesOCRNoise(t *testing.T) {
	// One substituted character should stay well above the default threshold.
	sim := acord.Similarity("each occurence", "each occurrence")
	assert.Greater(t, sim, acord.DefaultHeaderSimilarityMin)

	// Unrelated text scores low.
	assert.Less(t, acord.Similarity("certificate holder", "each occurrence"), 0.4)
}

func TestParseTable_ExactHeaderBeatsNoisyLine(t *testing.T) {
	// The noisy line matches no column; the exact header below must win.
	text := "OCCURRENCY AGGREGATTE SOMETHING\n" +
		"EACH OCCURRENCE  GENERAL AGGREGATE\n" +
		"$1,000,000  $2,000,000\n"

	out := acord.ParseTable(text, acord.GeneralHeaders, acord.TableParseOptions{})
	assert.Equal(t, 1000000.0, out["eachOccurrence"])
	assert.Equal(t, 2000000.0, out["generalAggregate"])
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,000,000", 1000000, true},
		{"2,000,000", 2000000, true},
		{"$500.00", 500, true},
		{"1.000.000", 0, false}, // multiple dots do not parse
		{"N/A", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := acord.ParseMoney(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.Equal(t, c.want, got, c.in)
		}
	}
}
