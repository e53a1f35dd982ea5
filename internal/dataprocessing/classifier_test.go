package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"votestats/pkg/contracts/domain"
)

func TestRowClassifier_Classify(t *testing.T) {
	c := NewRowClassifier(nil)

	tests := []struct {
		label string
		want  domain.Category
	}{
		{"Special votes before polling day", domain.CategorySpecialAdvance},
		{"special votes before polling day - North", domain.CategorySpecialAdvance},
		{"SPECIAL VOTES BEFORE POLLING DAY", domain.CategorySpecialAdvance},
		{"  Special   votes before polling day  ", domain.CategorySpecialAdvance},
		{"Special votes before polling day – Hutt", domain.CategorySpecialAdvance},
		{"Ordinary Votes BEFORE polling day", domain.CategoryOrdinaryAdvance},
		{"Special Votes On Polling Day", domain.CategorySpecialOn},
		{"Voting Places where less than 6 votes were taken", domain.CategoryLessThan6},
		{"Polling Places where less than 6 votes were taken", domain.CategoryLessThan6},
		{"Polling place where less than 6 votes were taken", domain.CategoryLessThan6},
		{"Overseas Special Votes including Defence Force", domain.CategoryOverseas},
		{"Votes Allowed for Party Only", domain.CategoryPartyOnly},
		{"Special Votes Allowed for Party Only", domain.CategoryPartyOnly},
		{"Testville Total", domain.CategoryTotals},
		{"TESTVILLE TOTAL", domain.CategoryTotals},
		{"  testville   total ", domain.CategoryTotals},
		{"Northtown School", domain.CategoryNone},
		{"Less than 6 votes", domain.CategoryNone},
		{"Othertown Total", domain.CategoryNone},
		{"Total", domain.CategoryNone},
		{"", domain.CategoryNone},
		{"- North", domain.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.label, "Testville"))
		})
	}
}

func TestRowClassifier_TotalsCheckedBeforeHyphenCut(t *testing.T) {
	c := NewRowClassifier(nil)

	assert.Equal(t, domain.CategoryTotals, c.Classify("Ohariu-Belmont Total", "Ohariu-Belmont"))
	assert.Equal(t, domain.CategoryNone, c.Classify("Ohariu-Belmont School", "Ohariu-Belmont"))
}

func TestRowClassifier_ExtraLabels(t *testing.T) {
	c := NewRowClassifier(map[string]domain.Category{
		"Early Votes  Cast": domain.CategoryOrdinaryAdvance,
	})

	assert.Equal(t, domain.CategoryOrdinaryAdvance, c.Classify("early votes cast - Central", "Testville"))
	assert.Equal(t, domain.CategorySpecialOn, c.Classify("Special votes on polling day", "Testville"))
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Special Votes", "special votes"},
		{"  a \t b  ", "a b"},
		{"Ordinary votes before polling day - North - 2", "ordinary votes before polling day"},
		{"x—y", "x"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLabel(tt.in), tt.in)
	}
}

func TestIsTotalsLabel(t *testing.T) {
	assert.True(t, IsTotalsLabel("Mt Albert Total", "Mt Albert"))
	assert.True(t, IsTotalsLabel("MT  ALBERT TOTAL", "mt albert"))
	assert.False(t, IsTotalsLabel("Mt Albert Totals", "Mt Albert"))
	assert.False(t, IsTotalsLabel("Albert Total", "Mt Albert"))
	assert.False(t, IsTotalsLabel("Total", ""))
}
