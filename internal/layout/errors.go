package layout

import "fmt"

// PlacementError indicates a section whose stored location disagrees with the
// container holding it, or a section id that appears more than once.
type PlacementError struct {
	SectionID string
	Location  Location
	Message   string
}

func (e *PlacementError) Error() string {
	if e.SectionID == "" {
		return fmt.Sprintf("invalid placement in %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("invalid placement of section %s in %s: %s", e.SectionID, e.Location, e.Message)
}

// SectionTypeError reports a section whose type is not one of the known section types.
type SectionTypeError struct {
	SectionID string
	Type      SectionType
}

func (e *SectionTypeError) Error() string {
	return fmt.Sprintf("section %s has unknown type %q", e.SectionID, e.Type)
}
