package filter

import (
	"testing"

	"docdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportState(t *testing.T) State {
	t.Helper()
	return NewState(mustSet(t,
		Categorical("office", "Offices", offices()),
		Categorical("classification", "Classification", []model.Option{
			{Value: "Public", Label: "Public"},
			{Value: "Confidential", Label: "Confidential"},
		}),
		Categorical("type", "Type", []model.Option{{Value: "memo", Label: "Memo"}}),
	))
}

func TestState_ClassificationSelectedIsActive(t *testing.T) {
	s := reportState(t)
	require.False(t, s.IsActive())

	s, err := s.ApplyFacetChange("classification", Text("Confidential"))
	require.NoError(t, err)
	assert.True(t, s.IsActive())
	assert.Equal(t, All, s.Facets().Selection("office"))
	assert.Equal(t, "Confidential", s.Facets().Selection("classification"))
	assert.Equal(t, All, s.Facets().Selection("type"))
	assert.True(t, s.DateRange().IsUnset())
}

func TestState_InvalidOptionLeavesStateUnchanged(t *testing.T) {
	s := reportState(t).ApplySearchTerm("budget")
	next, err := s.ApplyFacetChange("classification", Text("NotAnOption"))
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, s, next)
}

func TestState_ResetWhenInactiveIsNoop(t *testing.T) {
	s := reportState(t)
	r := s.ResetAll()
	assert.Equal(t, s, r)
	assert.False(t, r.IsActive())
}

func TestState_ResetKeepsOutputFormat(t *testing.T) {
	s, err := reportState(t).ApplyOutputFormat(FormatCSV)
	require.NoError(t, err)
	s, _ = s.ApplyFacetChange("office", Text("records"))
	s, _ = s.ApplyDateRange(Since(day("2024-01-01")))
	s = s.ApplySearchTerm("memo")
	require.True(t, s.IsActive())

	r := s.ResetAll()
	assert.False(t, r.IsActive())
	assert.Equal(t, FormatCSV, r.OutputFormat())
	assert.Equal(t, "", r.SearchTerm())
	assert.True(t, r.DateRange().IsUnset())
}

func TestState_ApplyDateRangeRejectsInvalid(t *testing.T) {
	s := reportState(t)
	next, err := s.ApplyDateRange(DateRange{To: dayPtr("2024-01-01")})
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, s, next)
}

func TestState_ApplyOutputFormat(t *testing.T) {
	s := reportState(t)
	_, err := s.ApplyOutputFormat("docx")
	require.ErrorIs(t, err, ErrInvalidValue)

	f, err := ParseOutputFormat(" Excel ")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)
	assert.Equal(t, "Excel Spreadsheet", f.Label())

	f, err = ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, OutputFormat(""), f)
}

func TestState_Matches(t *testing.T) {
	rows := []row{
		{fields: map[string]string{"office": "records", "classification": "Public"}, search: "DOC-1 Annual report", date: dayPtr("2024-01-15")},
		{fields: map[string]string{"office": "finance", "classification": "Confidential"}, search: "DOC-2 Payroll", date: dayPtr("2024-02-20")},
		{fields: map[string]string{"office": "finance", "classification": "Public"}, search: "DOC-3 Budget", date: nil},
	}
	s := reportState(t)
	assert.Len(t, Apply(s, rows), 3)

	s2, _ := s.ApplyFacetChange("office", Text("finance"))
	assert.Len(t, Apply(s2, rows), 2)

	s3 := s2.ApplySearchTerm("payroll")
	got := Apply(s3, rows)
	require.Len(t, got, 1)
	assert.Equal(t, "DOC-2 Payroll", got[0].search)

	s4, _ := s.ApplyDateRange(Since(day("2024-02-01")))
	got = Apply(s4, rows)
	require.Len(t, got, 1, "undated rows fail a set range")
	assert.Equal(t, "DOC-2 Payroll", got[0].search)
}

func TestState_WhitespaceSearchMatchesEverything(t *testing.T) {
	s := reportState(t).ApplySearchTerm("   ")
	assert.False(t, s.IsActive())
	assert.True(t, s.Matches(row{search: "anything"}))
}

func TestState_Summary(t *testing.T) {
	s := reportState(t)
	assert.Empty(t, s.Summary())
	s, _ = s.ApplyFacetChange("office", Text("records"))
	s = s.ApplySearchTerm("memo")
	s, _ = s.ApplyDateRange(Between(day("2024-03-01"), day("2024-03-09")))
	assert.Equal(t, []string{
		"Offices: Records Office",
		"Search: memo",
		"Date: Mar 01, 2024 - Mar 09, 2024",
	}, s.Summary())
}

func TestPaginate(t *testing.T) {
	rows := make([]int, 45)
	for i := range rows {
		rows[i] = i
	}
	p := Paginate(rows, 3, 20)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.Pages)
	assert.Len(t, p.Rows, 5)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = Paginate(rows, 99, 20)
	assert.Equal(t, 3, p.Number, "page is clamped")

	p = Paginate([]int{}, 0, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.Pages)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Empty(t, p.Rows)
}
