// Package layout defines the structured template definition (sections, rows and
// columns) and the Store that performs structural edits on it.
package layout

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// LayoutType selects which placement categories of a template are rendered.
type LayoutType string

// Supported layout types.
const (
	LayoutSingleColumn LayoutType = "single-column"
	LayoutLeftSidebar  LayoutType = "left-sidebar"
	LayoutRightSidebar LayoutType = "right-sidebar"
	LayoutGrid         LayoutType = "grid"
	LayoutCustom       LayoutType = "custom"
)

// Valid reports whether t is a known layout type.
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutSingleColumn, LayoutLeftSidebar, LayoutRightSidebar, LayoutGrid, LayoutCustom:
		return true
	}
	return false
}

// SectionType is the discriminator of a Section.
type SectionType string

// Section types. Projects and certifications bind the matching resume collections.
const (
	SectionHeader         SectionType = "header"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionLanguages      SectionType = "languages"
	SectionReferences     SectionType = "references"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionCustom         SectionType = "custom"
)

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	_, ok := defaultFieldMaps[t]
	return ok
}

// Collection returns the resume collection a repeatable section iterates over.
// The second value is false for non-repeatable sections.
func (t SectionType) Collection() (types.Collection, bool) {
	switch t {
	case SectionExperience:
		return types.CollectionExperience, true
	case SectionEducation:
		return types.CollectionEducation, true
	case SectionSkills:
		return types.CollectionSkills, true
	case SectionLanguages:
		return types.CollectionLanguages, true
	case SectionReferences:
		return types.CollectionReferences, true
	case SectionProjects:
		return types.CollectionProjects, true
	case SectionCertifications:
		return types.CollectionCertifications, true
	}
	return "", false
}

// LocationKind is the category of a section placement.
type LocationKind string

// Placement categories.
const (
	LocationSidebar LocationKind = "sidebar"
	LocationMain    LocationKind = "main"
	LocationGrid    LocationKind = "grid"
	LocationCustom  LocationKind = "custom"
)

// Location identifies the ordered list a section lives in. RowID and ColumnID
// are only set for grid cells and custom columns.
type Location struct {
	Kind     LocationKind `json:"kind"`
	RowID    string       `json:"rowId,omitempty"`
	ColumnID string       `json:"columnId,omitempty"`
}

func (l Location) String() string {
	switch l.Kind {
	case LocationGrid, LocationCustom:
		return fmt.Sprintf("%s[%s/%s]", l.Kind, l.RowID, l.ColumnID)
	}
	return string(l.Kind)
}

// Sidebar is the fixed sidebar slot.
func Sidebar() Location { return Location{Kind: LocationSidebar} }

// Main is the fixed main slot.
func Main() Location { return Location{Kind: LocationMain} }

// GridCell addresses a cell within a grid row.
func GridCell(rowID, cellID string) Location {
	return Location{Kind: LocationGrid, RowID: rowID, ColumnID: cellID}
}

// CustomColumn addresses a column within a custom row.
func CustomColumn(rowID, columnID string) Location {
	return Location{Kind: LocationCustom, RowID: rowID, ColumnID: columnID}
}

// Section is a titled, independently placeable block.
type Section struct {
	ID       string      `json:"id"`
	Type     SectionType `json:"type"`
	Title    string      `json:"title"`
	Fields   FieldMap    `json:"fields"`
	Style    Style       `json:"style,omitempty"`
	Location Location    `json:"location"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Fields = s.Fields.Clone()
	out.Style = s.Style.Clone()
	return out
}

// Cell is one equal-width column of a grid Row.
type Cell struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

// Row is a grid row of N equal columns.
type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// CustomRowKind selects the initial column split of a custom row.
type CustomRowKind string

// Custom row kinds.
const (
	CustomRowHeader  CustomRowKind = "header"
	CustomRowSidebar CustomRowKind = "sidebar"
	CustomRowContent CustomRowKind = "content"
)

// initialWidths is the starting column split for each custom row kind.
var initialWidths = map[CustomRowKind][]float64{
	CustomRowHeader:  {100},
	CustomRowSidebar: {25, 75},
	CustomRowContent: {50, 50},
}

// Column is an independently sized column of a CustomRow. Width is a percentage.
type Column struct {
	ID       string    `json:"id"`
	Width    float64   `json:"width"`
	Sections []Section `json:"sections"`
}

// CustomRow is a row of percentage-width columns.
type CustomRow struct {
	ID      string        `json:"id"`
	Kind    CustomRowKind `json:"kind"`
	Columns []Column      `json:"columns"`
}

// Template is a named layout tree.
type Template struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	LayoutType LayoutType  `json:"layoutType"`
	Theme      Style       `json:"theme,omitempty"`
	Sidebar    []Section   `json:"sidebar"`
	Main       []Section   `json:"main"`
	Rows       []Row       `json:"rows"`
	CustomRows []CustomRow `json:"customRows"`
}

// New returns an empty template of the given layout type.
func New(name string, layoutType LayoutType) *Template {
	t := &Template{
		Name:       name,
		LayoutType: layoutType,
	}
	t.normalize()
	return t
}

// normalize replaces nil lists with empty ones so JSON output is stable.
func (t *Template) normalize() {
	if t.Sidebar == nil {
		t.Sidebar = []Section{}
	}
	if t.Main == nil {
		t.Main = []Section{}
	}
	if t.Rows == nil {
		t.Rows = []Row{}
	}
	if t.CustomRows == nil {
		t.CustomRows = []CustomRow{}
	}
	for i := range t.Rows {
		for j := range t.Rows[i].Cells {
			if t.Rows[i].Cells[j].Sections == nil {
				t.Rows[i].Cells[j].Sections = []Section{}
			}
		}
	}
	for i := range t.CustomRows {
		for j := range t.CustomRows[i].Columns {
			if t.CustomRows[i].Columns[j].Sections == nil {
				t.CustomRows[i].Columns[j].Sections = []Section{}
			}
		}
	}
}

// list returns a pointer to the ordered section list at loc, or nil if the
// location references a row or column that does not exist.
func (t *Template) list(loc Location) *[]Section {
	switch loc.Kind {
	case LocationSidebar:
		return &t.Sidebar
	case LocationMain:
		return &t.Main
	case LocationGrid:
		for i := range t.Rows {
			if t.Rows[i].ID != loc.RowID {
				continue
			}
			for j := range t.Rows[i].Cells {
				if t.Rows[i].Cells[j].ID == loc.ColumnID {
					return &t.Rows[i].Cells[j].Sections
				}
			}
		}
	case LocationCustom:
		for i := range t.CustomRows {
			if t.CustomRows[i].ID != loc.RowID {
				continue
			}
			for j := range t.CustomRows[i].Columns {
				if t.CustomRows[i].Columns[j].ID == loc.ColumnID {
					return &t.CustomRows[i].Columns[j].Sections
				}
			}
		}
	}
	return nil
}

// placement pairs a location with the section list physically stored there.
type placement struct {
	loc  Location
	list *[]Section
}

// placements enumerates every location list in fixed traversal order.
func (t *Template) placements() []placement {
	out := []placement{
		{loc: Sidebar(), list: &t.Sidebar},
		{loc: Main(), list: &t.Main},
	}
	for i := range t.Rows {
		for j := range t.Rows[i].Cells {
			out = append(out, placement{
				loc:  GridCell(t.Rows[i].ID, t.Rows[i].Cells[j].ID),
				list: &t.Rows[i].Cells[j].Sections,
			})
		}
	}
	for i := range t.CustomRows {
		for j := range t.CustomRows[i].Columns {
			out = append(out, placement{
				loc:  CustomColumn(t.CustomRows[i].ID, t.CustomRows[i].Columns[j].ID),
				list: &t.CustomRows[i].Columns[j].Sections,
			})
		}
	}
	return out
}

// find locates a section by ID anywhere in the template.
func (t *Template) find(id string) (Location, int, bool) {
	for _, p := range t.placements() {
		for i := range *p.list {
			if (*p.list)[i].ID == id {
				return p.loc, i, true
			}
		}
	}
	return Location{}, -1, false
}

// Validate checks that every section's stored location matches the list it is
// found in, that section IDs are unique across the template and that every
// section has a known type.
func (t *Template) Validate() error {
	seen := make(map[string]Location)
	for _, p := range t.placements() {
		for _, s := range *p.list {
			if !s.Type.Valid() {
				return &SectionTypeError{SectionID: s.ID, Type: s.Type}
			}
			if s.ID == "" {
				return &PlacementError{Location: p.loc, Message: "section without id"}
			}
			if prev, dup := seen[s.ID]; dup {
				return &PlacementError{
					SectionID: s.ID,
					Location:  p.loc,
					Message:   fmt.Sprintf("section also placed in %s", prev),
				}
			}
			seen[s.ID] = p.loc
			if s.Location != p.loc {
				return &PlacementError{
					SectionID: s.ID,
					Location:  s.Location,
					Message:   fmt.Sprintf("stored location does not match container %s", p.loc),
				}
			}
		}
	}
	return nil
}

// Sections returns every section in traversal order.
func (t *Template) Sections() []Section {
	var out []Section
	for _, p := range t.placements() {
		out = append(out, *p.list...)
	}
	return out
}
