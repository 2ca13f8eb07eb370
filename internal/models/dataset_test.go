package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows_BuildsColumnsAndKinds(t *testing.T) {
	ds := mustDataset(t, fruitRows())

	assert.Equal(t, []string{"Name", "Colour", "Qty", "Picked"}, ds.ColumnNames())
	assert.Equal(t, 4, ds.Len())

	cols := ds.Columns()
	assert.Equal(t, KindText, cols[0].Kind)
	assert.Equal(t, KindText, cols[1].Kind)
	assert.Equal(t, KindNumber, cols[2].Kind)
	assert.Equal(t, KindDate, cols[3].Kind)
	assert.Equal(t, 2, cols[1].Distinct)

	assert.Nil(t, ds.Value(2, 2), "blank cell is missing")
	assert.Equal(t, []string{"Cherry", "red", "", "2024-02-10"}, ds.Row(2))
}

func TestFromRows_SkipsLeadingAndBlankRows(t *testing.T) {
	ds := mustDataset(t, [][]string{
		{"", ""},
		{"A", "B"},
		{"1", "x"},
		{" ", ""},
		{"2"},
		{"3", "z", "extra"},
	})

	assert.Equal(t, []string{"A", "B", "Unnamed: 2"}, ds.ColumnNames())
	assert.Equal(t, [][]string{{"1", "x", ""}, {"2", "", ""}, {"3", "z", "extra"}}, ds.Rows(-1))
}

func TestFromRows_EmptySheet(t *testing.T) {
	_, err := FromRows("x", "s", [][]string{{"", " "}})
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = FromRows("x", "s", nil)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestFromRows_HeaderOnly(t *testing.T) {
	ds := mustDataset(t, [][]string{{"A", "B"}})
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Rows(-1))
}

func TestNormalizeHeader(t *testing.T) {
	got := NormalizeHeader([]string{"id", "", "id", " name ", "id", "id.1"})
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1", "name", "id.2", "id.1.1"}, got)
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name   string
		values []*string
		want   ColumnKind
	}{
		{"all missing", []*string{nil, nil}, KindText},
		{"integers", []*string{sp("1"), nil, sp("-4")}, KindNumber},
		{"floats", []*string{sp("1.5"), sp("2e3")}, KindNumber},
		{"dates", []*string{sp("2024-01-02"), sp("1/2/2006")}, KindDate},
		{"mixed", []*string{sp("1"), sp("apple")}, KindText},
		{"leading zeros", []*string{sp("02134"), sp("07102")}, KindText},
		{"nan and inf names", []*string{sp("Nan"), sp("Inf")}, KindText},
		{"infinity", []*string{sp("infinity"), sp("1")}, KindText},
		{"hex float", []*string{sp("0x1p4")}, KindText},
		{"zero and decimals", []*string{sp("0"), sp("0.25"), sp("-0.5")}, KindNumber},
		{"date and text", []*string{sp("2024-01-02"), sp("soon")}, KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.values))
		})
	}
}

func TestNewDataset_Validates(t *testing.T) {
	_, err := NewDataset("x", "s", []string{"a"}, nil)
	assert.Error(t, err)

	_, err = NewDataset("x", "s", []string{"a", "a"}, [][]*string{{sp("1")}, {sp("2")}})
	assert.Error(t, err)

	_, err = NewDataset("x", "s", []string{"a", "b"}, [][]*string{{sp("1")}, {}})
	assert.Error(t, err)
}

func TestNewDataset_CopiesInput(t *testing.T) {
	col := []*string{sp("a"), sp("b")}
	ds, err := NewDataset("x", "s", []string{"c"}, [][]*string{col})
	require.NoError(t, err)

	col[0] = sp("changed")
	assert.Equal(t, "a", *ds.Value(0, 0))
}

func TestDistinct(t *testing.T) {
	ds := mustDataset(t, fruitRows())

	got, err := ds.Distinct("Colour")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "yellow"}, got)

	_, err = ds.Distinct("Nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRows_Limit(t *testing.T) {
	ds := mustDataset(t, fruitRows())
	assert.Len(t, ds.Rows(2), 2)
	assert.Len(t, ds.Rows(100), 4)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"2e3", 2000, true},
		{"0.75", 0.75, true},
		{"007", 0, false},
		{"-01", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-infinity", 0, false},
		{"1e400", 0, false},
		{"1_000", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseNumber(%q)", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseNumber(%q)", tt.in)
		}
	}
}

func TestFromCells_TextCellsStayText(t *testing.T) {
	ds, err := FromCells("zips.xlsx", "Sheet1", [][]Cell{
		{{Value: "City", Text: true}, {Value: "Zip", Text: true}, {Value: "Pop", Text: true}},
		{{Value: "Boston", Text: true}, {Value: "2134", Text: true}, {Value: "650000"}},
		{},
		{{Value: "Newark", Text: true}, {Value: "7102", Text: true}, {Value: "311000"}},
	})
	require.NoError(t, err)

	cols := ds.Columns()
	assert.Equal(t, KindText, cols[1].Kind, "numeric-looking strings are still text")
	assert.Equal(t, KindNumber, cols[2].Kind)
	assert.Equal(t, [][]string{{"Boston", "2134", "650000"}, {"Newark", "7102", "311000"}}, ds.Rows(-1))
}
