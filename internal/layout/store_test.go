package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertPlacedOnce checks that every live id appears exactly once and that the
// template passes Validate.
func assertPlacedOnce(t *testing.T, s *Store) {
	t.Helper()
	counts := map[string]int{}
	for _, id := range s.SectionIDs() {
		counts[id]++
	}
	for id, n := range counts {
		assert.Equal(t, 1, n, "section %s placed %d times", id, n)
	}
	require.NoError(t, s.Template().Validate())
}

func TestAddSection_DefaultFieldsAndAppend(t *testing.T) {
	s := NewStore(nil)

	first := s.AddSection(SectionSummary, "Profile", Main())
	require.NotNil(t, first)
	second := s.AddSection(SectionExperience, "Work", Main())
	require.NotNil(t, second)

	main := s.Template().Main
	require.Len(t, main, 2)
	assert.Equal(t, "Profile", main[0].Title)
	assert.Equal(t, "Work", main[1].Title)
	assert.Equal(t, Main(), main[1].Location)
	assert.Equal(t, []string{"position", "company", "location", "startDate", "endDate", "description"}, main[1].Fields.Keys())

	cfg, ok := main[1].Fields.Get("company")
	require.True(t, ok)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "Company", cfg.Label)
}

func TestAddSection_MissingRowIsNoop(t *testing.T) {
	s := NewStore(New("Grid", LayoutGrid))

	sec := s.AddSection(SectionSkills, "Skills", GridCell("nope", "nope"))
	assert.Nil(t, sec)
	assert.Empty(t, s.SectionIDs())

	sec = s.AddSection(SectionSkills, "Skills", Location{Kind: "floating"})
	assert.Nil(t, sec)
}

func TestAddSection_UnknownTypeIsNoop(t *testing.T) {
	s := NewStore(nil)

	assert.Nil(t, s.AddSection("bogus", "Z", Main()))
	assert.Empty(t, s.SectionIDs())
}

func TestValidate_RejectsUnknownSectionType(t *testing.T) {
	tmpl := New("Odd", LayoutSingleColumn)
	tmpl.Main = []Section{{ID: "z", Type: "bogus", Location: Main()}}

	var te *SectionTypeError
	require.ErrorAs(t, tmpl.Validate(), &te)
	assert.Equal(t, "z", te.SectionID)
	assert.Equal(t, SectionType("bogus"), te.Type)
}

func TestMoveSection_BetweenLocations(t *testing.T) {
	s := NewStore(New("Two column", LayoutLeftSidebar))
	a := s.AddSection(SectionSkills, "Skills", Main()).ID
	b := s.AddSection(SectionSummary, "Summary", Main()).ID
	c := s.AddSection(SectionLanguages, "Languages", Sidebar()).ID

	ok := s.MoveSection(a, Main(), Sidebar(), 0)
	require.True(t, ok)

	tmpl := s.Template()
	require.Len(t, tmpl.Sidebar, 2)
	assert.Equal(t, a, tmpl.Sidebar[0].ID)
	assert.Equal(t, c, tmpl.Sidebar[1].ID)
	assert.Equal(t, Sidebar(), tmpl.Sidebar[0].Location)
	require.Len(t, tmpl.Main, 1)
	assert.Equal(t, b, tmpl.Main[0].ID)
	assertPlacedOnce(t, s)
}

func TestMoveSection_ClampsIndex(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSkills, "A", Main()).ID
	b := s.AddSection(SectionSkills, "B", Main()).ID
	c := s.AddSection(SectionSkills, "C", Main()).ID

	require.True(t, s.MoveSection(a, Main(), Main(), 99))
	assert.Equal(t, []string{b, c, a}, s.SectionIDs())

	require.True(t, s.MoveSection(a, Main(), Main(), -5))
	assert.Equal(t, []string{a, b, c}, s.SectionIDs())
}

func TestMoveSection_WrongSourceOrTarget(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSkills, "A", Main()).ID

	assert.False(t, s.MoveSection(a, Sidebar(), Main(), 0))
	assert.False(t, s.MoveSection(a, Main(), GridCell("r", "c"), 0))
	assert.False(t, s.MoveSection("missing", Main(), Sidebar(), 0))

	sec, ok := s.Section(a)
	require.True(t, ok)
	assert.Equal(t, Main(), sec.Location)
}

func TestDuplicateSection_InGridCell(t *testing.T) {
	s := NewStore(New("Grid", LayoutGrid))
	row := s.AddRow(2)
	require.NotNil(t, row)
	rowID, cellID := row.ID, row.Cells[1].ID
	cell := GridCell(rowID, cellID)

	orig := s.AddSection(SectionEducation, "Education", cell).ID
	require.True(t, s.UpdateSectionStyle(orig, Style{"backgroundColor": "#eef"}))
	require.True(t, s.UpdateSectionFields(orig, FieldMap{{Key: "gpa", FieldConfig: FieldConfig{Enabled: false, Label: "GPA"}}}))

	dup := s.DuplicateSection(orig)
	require.NotNil(t, dup)
	dupID := dup.ID

	secs := s.Template().Rows[0].Cells[1].Sections
	require.Len(t, secs, 2)
	assert.Equal(t, orig, secs[0].ID)
	assert.Equal(t, dupID, secs[1].ID)
	assert.NotEqual(t, orig, dupID)
	assert.Equal(t, "Education (Copy)", secs[1].Title)
	assert.Equal(t, cell, secs[1].Location)
	assert.Equal(t, secs[0].Fields, secs[1].Fields)
	assert.Equal(t, secs[0].Style, secs[1].Style)

	// The copy must not share state with the original.
	require.True(t, s.UpdateSectionStyle(dupID, Style{"color": "red"}))
	origSec, _ := s.Section(orig)
	_, shared := origSec.Style["color"]
	assert.False(t, shared)
	assertPlacedOnce(t, s)
}

func TestDeleteSection_ClearsSelection(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSkills, "A", Main()).ID
	b := s.AddSection(SectionSkills, "B", Main()).ID

	s.Select(a)
	assert.Equal(t, a, s.Selected())

	require.True(t, s.DeleteSection(b))
	assert.Equal(t, a, s.Selected())

	require.True(t, s.DeleteSection(a))
	assert.Equal(t, "", s.Selected())
	assert.False(t, s.DeleteSection(a))
}

func TestSelect_UnknownClears(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSkills, "A", Main()).ID
	s.Select(a)
	s.Select("missing")
	assert.Equal(t, "", s.Selected())
}

func TestUpdateSectionStyle_Merges(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSummary, "Summary", Main()).ID

	require.True(t, s.UpdateSectionStyle(a, Style{"padding": "8px", "color": "#333"}))
	require.True(t, s.UpdateSectionStyle(a, Style{"color": "#000"}))

	sec, _ := s.Section(a)
	assert.Equal(t, Style{"padding": "8px", "color": "#000"}, sec.Style)
	assert.False(t, s.UpdateSectionStyle("missing", Style{"color": "red"}))
}

func TestUpdateSectionFields_MergesPerKey(t *testing.T) {
	s := NewStore(nil)
	a := s.AddSection(SectionSkills, "Skills", Main()).ID

	patch := FieldMap{
		{Key: "level", FieldConfig: FieldConfig{Enabled: false, Label: "Level", InputKind: InputNumber}},
		{Key: "years", FieldConfig: FieldConfig{Enabled: true, Label: "Years", InputKind: InputNumber}},
	}
	require.True(t, s.UpdateSectionFields(a, patch))

	sec, _ := s.Section(a)
	assert.Equal(t, []string{"name", "level", "category", "years"}, sec.Fields.Keys())
	level, _ := sec.Fields.Get("level")
	assert.False(t, level.Enabled)
	name, _ := sec.Fields.Get("name")
	assert.True(t, name.Enabled)
}

func TestAddRow(t *testing.T) {
	s := NewStore(New("Grid", LayoutGrid))

	assert.Nil(t, s.AddRow(0))
	row := s.AddRow(3)
	require.NotNil(t, row)
	assert.Len(t, row.Cells, 3)
	assert.Len(t, s.Template().Rows, 1)
}

func TestAddCustomRow_InitialSplits(t *testing.T) {
	s := NewStore(New("Custom", LayoutCustom))

	cases := []struct {
		kind   CustomRowKind
		widths []float64
	}{
		{CustomRowHeader, []float64{100}},
		{CustomRowSidebar, []float64{25, 75}},
		{CustomRowContent, []float64{50, 50}},
	}
	for _, tc := range cases {
		row := s.AddCustomRow(tc.kind)
		require.NotNil(t, row, tc.kind)
		var widths []float64
		for _, c := range row.Columns {
			widths = append(widths, c.Width)
		}
		assert.Equal(t, tc.widths, widths, tc.kind)
	}
	assert.Nil(t, s.AddCustomRow("footer"))
}

func TestDeleteRows_RemoveContainedSections(t *testing.T) {
	s := NewStore(New("Custom", LayoutCustom))
	row := s.AddCustomRow(CustomRowSidebar)
	rowID, colID := row.ID, row.Columns[0].ID
	sec := s.AddSection(SectionSkills, "Skills", CustomColumn(rowID, colID)).ID
	s.Select(sec)

	require.True(t, s.DeleteCustomRow(rowID))
	assert.Empty(t, s.SectionIDs())
	assert.Equal(t, "", s.Selected())
	assert.False(t, s.DeleteCustomRow(rowID))

	grid := s.AddRow(2)
	s.AddSection(SectionSummary, "Summary", GridCell(grid.ID, grid.Cells[0].ID))
	require.True(t, s.DeleteRow(grid.ID))
	assert.Empty(t, s.SectionIDs())
}

func TestUpdateCustomColumnWidth_Rebalances(t *testing.T) {
	s := NewStore(New("Custom", LayoutCustom))
	row := s.AddCustomRow(CustomRowSidebar)
	rowID, left, right := row.ID, row.Columns[0].ID, row.Columns[1].ID

	require.True(t, s.UpdateCustomColumnWidth(rowID, left, 40))
	cols := s.Template().CustomRows[0].Columns
	assert.InDelta(t, 40, cols[0].Width, 1e-9)
	assert.InDelta(t, 60, cols[1].Width, 1e-9)

	require.True(t, s.UpdateCustomColumnWidth(rowID, right, 150))
	cols = s.Template().CustomRows[0].Columns
	assert.InDelta(t, 100, cols[1].Width, 1e-9)
	assert.InDelta(t, 0, cols[0].Width, 1e-9)

	assert.False(t, s.UpdateCustomColumnWidth(rowID, "missing", 10))
	assert.False(t, s.UpdateCustomColumnWidth("missing", left, 10))
}

func TestUpdateCustomColumnWidth_NonFinite(t *testing.T) {
	s := NewStore(New("Custom", LayoutCustom))
	row := s.AddCustomRow(CustomRowSidebar)
	rowID, left := row.ID, row.Columns[0].ID

	assert.False(t, s.UpdateCustomColumnWidth(rowID, left, math.NaN()))
	cols := s.Template().CustomRows[0].Columns
	assert.InDelta(t, 25, cols[0].Width, 1e-9)
	assert.InDelta(t, 75, cols[1].Width, 1e-9)

	require.True(t, s.UpdateCustomColumnWidth(rowID, left, math.Inf(1)))
	cols = s.Template().CustomRows[0].Columns
	assert.InDelta(t, 100, cols[0].Width, 1e-9)
	assert.InDelta(t, 0, cols[1].Width, 1e-9)
}

func TestUpdateCustomColumnWidth_ZeroOthersNoRebalance(t *testing.T) {
	s := NewStore(New("Custom", LayoutCustom))
	row := s.AddCustomRow(CustomRowContent)
	rowID, a, b := row.ID, row.Columns[0].ID, row.Columns[1].ID

	require.True(t, s.UpdateCustomColumnWidth(rowID, a, 100))
	require.True(t, s.UpdateCustomColumnWidth(rowID, b, 30))
	cols := s.Template().CustomRows[0].Columns
	// b had width 0 after the first update, so a is scaled to 70.
	assert.InDelta(t, 70, cols[0].Width, 1e-9)
	assert.InDelta(t, 30, cols[1].Width, 1e-9)

	s.Template().CustomRows[0].Columns[0].Width = 0
	require.True(t, s.UpdateCustomColumnWidth(rowID, b, 20))
	cols = s.Template().CustomRows[0].Columns
	assert.InDelta(t, 0, cols[0].Width, 1e-9)
	assert.InDelta(t, 20, cols[1].Width, 1e-9)
}

func TestUpdateCustomColumnWidth_SumsToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore(New("Custom", LayoutCustom))
	row := s.AddCustomRow(CustomRowContent)
	rowID := row.ID
	ids := []string{row.Columns[0].ID, row.Columns[1].ID}

	for i := 0; i < 200; i++ {
		target := ids[rng.Intn(len(ids))]
		// Stay below 100 so the other column never collapses to zero.
		width := rng.Float64() * 99
		require.True(t, s.UpdateCustomColumnWidth(rowID, target, width))

		var sum float64
		for _, c := range s.Template().CustomRows[0].Columns {
			sum += c.Width
		}
		assert.LessOrEqual(t, math.Abs(sum-100), 1e-6)
	}
}

func TestStore_RandomEditsKeepSinglePlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewStore(New("Mixed", LayoutCustom))
	grid := s.AddRow(3)
	gridID := grid.ID
	cellIDs := []string{grid.Cells[0].ID, grid.Cells[1].ID, grid.Cells[2].ID}
	custom := s.AddCustomRow(CustomRowSidebar)
	customID := custom.ID
	colIDs := []string{custom.Columns[0].ID, custom.Columns[1].ID}

	locations := []Location{Sidebar(), Main()}
	for _, c := range cellIDs {
		locations = append(locations, GridCell(gridID, c))
	}
	for _, c := range colIDs {
		locations = append(locations, CustomColumn(customID, c))
	}

	for i := 0; i < 500; i++ {
		ids := s.SectionIDs()
		switch op := rng.Intn(4); {
		case op == 0 || len(ids) == 0:
			loc := locations[rng.Intn(len(locations))]
			require.NotNil(t, s.AddSection(SectionSkills, "S", loc))
		case op == 1:
			id := ids[rng.Intn(len(ids))]
			sec, ok := s.Section(id)
			require.True(t, ok)
			to := locations[rng.Intn(len(locations))]
			require.True(t, s.MoveSection(id, sec.Location, to, rng.Intn(5)))
		case op == 2:
			require.NotNil(t, s.DuplicateSection(ids[rng.Intn(len(ids))]))
		default:
			require.True(t, s.DeleteSection(ids[rng.Intn(len(ids))]))
		}
		assertPlacedOnce(t, s)
	}
}

func TestValidate_DetectsMismatchAndDuplicates(t *testing.T) {
	tmpl := New("Broken", LayoutLeftSidebar)
	tmpl.Main = []Section{{ID: "a", Type: SectionSummary, Location: Sidebar()}}

	err := tmpl.Validate()
	var pe *PlacementError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "a", pe.SectionID)

	tmpl.Main = []Section{{ID: "a", Type: SectionSummary, Location: Main()}}
	tmpl.Sidebar = []Section{{ID: "a", Type: SectionSkills, Location: Sidebar()}}
	require.ErrorAs(t, tmpl.Validate(), &pe)
	assert.Contains(t, pe.Error(), "also placed in")
}

func TestStyleCSS_SortedAndKebabCase(t *testing.T) {
	st := Style{"padding": "4px", "backgroundColor": "#fff", "fontSize": "12px"}
	assert.Equal(t, "background-color: #fff; font-size: 12px; padding: 4px;", st.CSS())
	assert.Equal(t, "", Style{}.CSS())
}

func TestDecode_NormalizesLists(t *testing.T) {
	tmpl, err := Decode([]byte(`{"name":"Plain","rows":[{"id":"r1","cells":[{"id":"c1"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, LayoutSingleColumn, tmpl.LayoutType)
	assert.NotNil(t, tmpl.Main)
	assert.NotNil(t, tmpl.Rows[0].Cells[0].Sections)

	data, err := Encode(tmpl)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")

	_, err = Decode([]byte(`{"name":`))
	assert.Error(t, err)
}
