package layout

import (
	"math"

	"github.com/google/uuid"
)

// Store performs structural edits on a Template and tracks the selected section.
// A Store is not safe for concurrent use.
type Store struct {
	tmpl     *Template
	selected string
}

// NewStore wraps t. A nil template starts an empty single-column layout.
func NewStore(t *Template) *Store {
	if t == nil {
		t = New("", LayoutSingleColumn)
	}
	t.normalize()
	return &Store{tmpl: t}
}

// Template returns the template being edited.
func (s *Store) Template() *Template {
	return s.tmpl
}

// SetLayoutType switches the layout discriminator. Sections in categories the
// new type does not render are kept, not moved.
func (s *Store) SetLayoutType(t LayoutType) {
	s.tmpl.LayoutType = t
}

// AddSection creates a section with the default fields of typ and appends it to
// loc. It returns nil for an unknown typ or when loc does not resolve to an
// existing list.
func (s *Store) AddSection(typ SectionType, title string, loc Location) *Section {
	if !typ.Valid() {
		return nil
	}
	list := s.tmpl.list(loc)
	if list == nil {
		return nil
	}
	*list = append(*list, Section{
		ID:       uuid.NewString(),
		Type:     typ,
		Title:    title,
		Fields:   DefaultFields(typ),
		Style:    Style{},
		Location: loc,
	})
	return &(*list)[len(*list)-1]
}

// MoveSection removes the section from `from` and inserts it into `to` at
// targetIndex, clamped to the destination bounds. It reports whether a move
// happened.
func (s *Store) MoveSection(id string, from, to Location, targetIndex int) bool {
	src := s.tmpl.list(from)
	dst := s.tmpl.list(to)
	if src == nil || dst == nil {
		return false
	}
	idx := indexOf(*src, id)
	if idx < 0 {
		return false
	}

	sec := (*src)[idx]
	*src = append((*src)[:idx:idx], (*src)[idx+1:]...)

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(*dst) {
		targetIndex = len(*dst)
	}
	sec.Location = to
	*dst = append(*dst, Section{})
	copy((*dst)[targetIndex+1:], (*dst)[targetIndex:])
	(*dst)[targetIndex] = sec
	return true
}

// DuplicateSection appends a deep copy of the section to its own location with
// a new id and a " (Copy)" title suffix.
func (s *Store) DuplicateSection(id string) *Section {
	loc, idx, ok := s.tmpl.find(id)
	if !ok {
		return nil
	}
	list := s.tmpl.list(loc)
	dup := (*list)[idx].Clone()
	dup.ID = uuid.NewString()
	dup.Title += " (Copy)"
	dup.Location = loc
	*list = append(*list, dup)
	return &(*list)[len(*list)-1]
}

// DeleteSection removes the section wherever it is placed.
func (s *Store) DeleteSection(id string) bool {
	loc, idx, ok := s.tmpl.find(id)
	if !ok {
		return false
	}
	list := s.tmpl.list(loc)
	*list = append((*list)[:idx:idx], (*list)[idx+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// UpdateSectionStyle merges patch into the section style.
func (s *Store) UpdateSectionStyle(id string, patch Style) bool {
	sec := s.section(id)
	if sec == nil {
		return false
	}
	sec.Style.Merge(patch)
	return true
}

// UpdateSectionFields merges patch into the section field map.
func (s *Store) UpdateSectionFields(id string, patch FieldMap) bool {
	sec := s.section(id)
	if sec == nil {
		return false
	}
	sec.Fields.Merge(patch)
	return true
}

// AddRow appends a grid row of columnCount empty cells.
func (s *Store) AddRow(columnCount int) *Row {
	if columnCount < 1 {
		return nil
	}
	row := Row{ID: uuid.NewString(), Cells: make([]Cell, columnCount)}
	for i := range row.Cells {
		row.Cells[i] = Cell{ID: uuid.NewString(), Sections: []Section{}}
	}
	s.tmpl.Rows = append(s.tmpl.Rows, row)
	return &s.tmpl.Rows[len(s.tmpl.Rows)-1]
}

// AddCustomRow appends a custom row with the initial column split of kind.
func (s *Store) AddCustomRow(kind CustomRowKind) *CustomRow {
	widths, ok := initialWidths[kind]
	if !ok {
		return nil
	}
	row := CustomRow{ID: uuid.NewString(), Kind: kind, Columns: make([]Column, len(widths))}
	for i, w := range widths {
		row.Columns[i] = Column{ID: uuid.NewString(), Width: w, Sections: []Section{}}
	}
	s.tmpl.CustomRows = append(s.tmpl.CustomRows, row)
	return &s.tmpl.CustomRows[len(s.tmpl.CustomRows)-1]
}

// DeleteRow removes a grid row together with the sections placed in it.
func (s *Store) DeleteRow(rowID string) bool {
	for i, r := range s.tmpl.Rows {
		if r.ID != rowID {
			continue
		}
		for _, c := range r.Cells {
			s.clearSelectionIn(c.Sections)
		}
		s.tmpl.Rows = append(s.tmpl.Rows[:i:i], s.tmpl.Rows[i+1:]...)
		return true
	}
	return false
}

// DeleteCustomRow removes a custom row together with the sections placed in it.
func (s *Store) DeleteCustomRow(rowID string) bool {
	for i, r := range s.tmpl.CustomRows {
		if r.ID != rowID {
			continue
		}
		for _, c := range r.Columns {
			s.clearSelectionIn(c.Sections)
		}
		s.tmpl.CustomRows = append(s.tmpl.CustomRows[:i:i], s.tmpl.CustomRows[i+1:]...)
		return true
	}
	return false
}

// UpdateCustomColumnWidth sets a column width, clamped to [0, 100], and scales
// the other columns of the row so the row sums to 100. When the other columns
// sum to zero they are left untouched. NaN is rejected.
func (s *Store) UpdateCustomColumnWidth(rowID, columnID string, width float64) bool {
	if math.IsNaN(width) {
		return false
	}
	row := s.customRow(rowID)
	if row == nil {
		return false
	}
	target := -1
	for i, c := range row.Columns {
		if c.ID == columnID {
			target = i
			break
		}
	}
	if target < 0 {
		return false
	}

	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}
	row.Columns[target].Width = width

	var others float64
	for i, c := range row.Columns {
		if i != target {
			others += c.Width
		}
	}
	if others == 0 {
		return true
	}
	scale := (100 - width) / others
	for i := range row.Columns {
		if i != target {
			row.Columns[i].Width *= scale
		}
	}
	return true
}

// Select marks a section as selected. Unknown ids clear the selection.
func (s *Store) Select(id string) {
	if _, _, ok := s.tmpl.find(id); !ok {
		s.selected = ""
		return
	}
	s.selected = id
}

// Selected returns the selected section id, or "" when nothing is selected.
func (s *Store) Selected() string {
	return s.selected
}

// Section returns a copy of the section with the given id.
func (s *Store) Section(id string) (Section, bool) {
	sec := s.section(id)
	if sec == nil {
		return Section{}, false
	}
	return sec.Clone(), true
}

// SectionIDs returns every placed section id in traversal order.
func (s *Store) SectionIDs() []string {
	secs := s.tmpl.Sections()
	out := make([]string, len(secs))
	for i, sec := range secs {
		out[i] = sec.ID
	}
	return out
}

func (s *Store) section(id string) *Section {
	loc, idx, ok := s.tmpl.find(id)
	if !ok {
		return nil
	}
	return &(*s.tmpl.list(loc))[idx]
}

func (s *Store) customRow(id string) *CustomRow {
	for i := range s.tmpl.CustomRows {
		if s.tmpl.CustomRows[i].ID == id {
			return &s.tmpl.CustomRows[i]
		}
	}
	return nil
}

func (s *Store) clearSelectionIn(secs []Section) {
	if indexOf(secs, s.selected) >= 0 {
		s.selected = ""
	}
}

func indexOf(secs []Section, id string) int {
	for i := range secs {
		if secs[i].ID == id {
			return i
		}
	}
	return -1
}
