package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votestats/internal/config"
	"votestats/internal/errors"
	"votestats/pkg/contracts/domain"
)

func TestLayoutTable_Lookup(t *testing.T) {
	table, err := NewLayoutTable()
	require.NoError(t, err)

	tests := []struct {
		year         int
		wantHeader   bool
		wantTrailing int
		wantTokens   int
	}{
		{year: 1999, wantHeader: false, wantTrailing: 4, wantTokens: 4},
		{year: 2002, wantHeader: true, wantTrailing: 2, wantTokens: 1},
		{year: 2014, wantHeader: true, wantTrailing: 2, wantTokens: 1},
		{year: 2000, wantHeader: false, wantTrailing: 4, wantTokens: 4},
		{year: 1996, wantHeader: true, wantTrailing: 2, wantTokens: 1},
	}

	for _, tt := range tests {
		l := table.Lookup(tt.year)
		assert.Equal(t, tt.wantHeader, l.HasHeader, "year %d", tt.year)
		assert.Equal(t, tt.wantTrailing, l.TrailingColumns, "year %d", tt.year)
		assert.Equal(t, tt.wantTokens, l.NameTrailingTokens, "year %d", tt.year)
	}

	assert.True(t, table.Lookup(1999).TitleCaseName)
	assert.False(t, table.Lookup(2011).TitleCaseName)
	assert.Equal(t, []int{1999, 2002}, table.Years())
}

func TestMustLayoutTable(t *testing.T) {
	assert.Equal(t, []int{1999, 2002}, defaultLayoutTable.Years())
	assert.Same(t, defaultLayoutTable, NewParser().layouts)

	assert.Panics(t, func() {
		mustLayoutTable(Layout{Year: 2017, TrailingColumns: -1, NameTrailingTokens: 1})
	})
}

func TestLayoutTable_Register(t *testing.T) {
	table, err := NewLayoutTable()
	require.NoError(t, err)

	require.NoError(t, table.Register(Layout{Year: 2017, HasHeader: true, TrailingColumns: 3, NameTrailingTokens: 1}))

	assert.Equal(t, 3, table.Lookup(2017).TrailingColumns)
	assert.Equal(t, 3, table.Lookup(2020).TrailingColumns)
	assert.Equal(t, 2, table.Lookup(2014).TrailingColumns)
	assert.Equal(t, []int{1999, 2002, 2017}, table.Years())

	// replacing keeps one entry per year
	require.NoError(t, table.Register(Layout{Year: 2017, TrailingColumns: 1, NameTrailingTokens: 1}))
	assert.Equal(t, 1, table.Lookup(2017).TrailingColumns)
	assert.Len(t, table.Years(), 3)
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{name: "general", layout: GeneralLayout},
		{name: "zero name tokens", layout: Layout{Year: 2017, TrailingColumns: 2}, wantErr: true},
		{name: "negative trailing", layout: Layout{Year: 2017, TrailingColumns: -1, NameTrailingTokens: 1}, wantErr: true},
		{
			name:    "totals cannot be absent",
			layout:  Layout{Year: 2017, NameTrailingTokens: 1, AbsentCategories: []domain.Category{domain.CategoryTotals}},
			wantErr: true,
		},
		{
			name:   "party only absent",
			layout: Layout{Year: 2017, NameTrailingTokens: 1, AbsentCategories: []domain.Category{domain.CategoryPartyOnly}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := NewLayoutTable(Layout{Year: 2017})
	assert.Error(t, err)
}

func TestLayoutsFromConfig(t *testing.T) {
	layouts, err := LayoutsFromConfig([]config.LayoutConfig{
		{Year: 2017, HasHeader: true, TrailingColumns: 2, AbsentCategories: []string{"party_only"}},
	})
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, 1, layouts[0].NameTrailingTokens)
	assert.Equal(t, []domain.Category{domain.CategoryPartyOnly}, layouts[0].AbsentCategories)

	_, err = LayoutsFromConfig([]config.LayoutConfig{{Year: 2017, AbsentCategories: []string{"bogus"}}})
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}
