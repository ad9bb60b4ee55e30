//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldError reports an update against an unknown or malformed resume field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// SetField updates a single scalar top-level field of the draft.
func (r *Resume) SetField(field, value string) error {
	switch field {
	case "name":
		r.Name = value
	case "title":
		r.Title = value
	case "email":
		r.Email = value
	case "phone":
		r.Phone = value
	case "location":
		r.Location = value
	case "website":
		r.Website = value
	case "linkedin":
		r.LinkedIn = value
	case "github":
		r.GitHub = value
	case "photoUrl":
		r.PhotoURL = value
	case "summary":
		r.Summary = value
	case "highlights":
		r.Highlights = value
	case "affiliations":
		r.Affiliations = value
	case "interests":
		r.Interests = value
	default:
		return &FieldError{Field: field, Message: "unknown field"}
	}
	return nil
}

// AddEntry appends an empty entry to the collection and returns its new ID.
func (r *Resume) AddEntry(c Collection) (string, error) {
	id := uuid.NewString()
	switch c {
	case CollectionExperience:
		r.Experience = append(r.Experience, Experience{ID: id})
	case CollectionEducation:
		r.Education = append(r.Education, Education{ID: id})
	case CollectionSkills:
		r.Skills = append(r.Skills, Skill{ID: id})
	case CollectionCertifications:
		r.Certifications = append(r.Certifications, Certification{ID: id})
	case CollectionProjects:
		r.Projects = append(r.Projects, Project{ID: id, Technologies: []string{}})
	case CollectionLanguages:
		r.Languages = append(r.Languages, Language{ID: id})
	case CollectionReferences:
		r.References = append(r.References, Reference{ID: id})
	default:
		return "", &FieldError{Field: string(c), Message: "unknown collection"}
	}
	return id, nil
}

// RemoveEntry deletes the entry with the given ID. It reports whether an entry was removed.
func (r *Resume) RemoveEntry(c Collection, id string) bool {
	switch c {
	case CollectionExperience:
		return removeByID(&r.Experience, id, func(e Experience) string { return e.ID })
	case CollectionEducation:
		return removeByID(&r.Education, id, func(e Education) string { return e.ID })
	case CollectionSkills:
		return removeByID(&r.Skills, id, func(e Skill) string { return e.ID })
	case CollectionCertifications:
		return removeByID(&r.Certifications, id, func(e Certification) string { return e.ID })
	case CollectionProjects:
		return removeByID(&r.Projects, id, func(e Project) string { return e.ID })
	case CollectionLanguages:
		return removeByID(&r.Languages, id, func(e Language) string { return e.ID })
	case CollectionReferences:
		return removeByID(&r.References, id, func(e Reference) string { return e.ID })
	}
	return false
}

func removeByID[T any](list *[]T, id string, idOf func(T) string) bool {
	for i, e := range *list {
		if idOf(e) == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateEntry sets one field on one entry of a collection.
func (r *Resume) UpdateEntry(c Collection, id, field, value string) error {
	path := fmt.Sprintf("%s[%s].%s", c, id, field)
	notFound := &FieldError{Field: path, Message: "entry not found"}
	unknown := &FieldError{Field: path, Message: "unknown field"}

	switch c {
	case CollectionExperience:
		for i := range r.Experience {
			if r.Experience[i].ID != id {
				continue
			}
			e := &r.Experience[i]
			switch field {
			case "company":
				e.Company = value
			case "position":
				e.Position = value
			case "location":
				e.Location = value
			case "startDate":
				e.StartDate = value
			case "endDate":
				e.EndDate = value
			case "current":
				b, err := strconv.ParseBool(value)
				if err != nil {
					return &FieldError{Field: path, Message: "must be true or false"}
				}
				e.Current = b
			case "description":
				e.Description = value
			default:
				return unknown
			}
			return nil
		}
	case CollectionEducation:
		for i := range r.Education {
			if r.Education[i].ID != id {
				continue
			}
			e := &r.Education[i]
			switch field {
			case "institution":
				e.Institution = value
			case "degree":
				e.Degree = value
			case "field":
				e.Field = value
			case "startDate":
				e.StartDate = value
			case "endDate":
				e.EndDate = value
			case "gpa":
				e.GPA = value
			case "description":
				e.Description = value
			default:
				return unknown
			}
			return nil
		}
	case CollectionSkills:
		for i := range r.Skills {
			if r.Skills[i].ID != id {
				continue
			}
			s := &r.Skills[i]
			switch field {
			case "name":
				s.Name = value
			case "category":
				s.Category = value
			case "level":
				n, err := parseProficiency(value)
				if err != nil {
					return &FieldError{Field: path, Message: err.Error()}
				}
				s.Level = n
			default:
				return unknown
			}
			return nil
		}
	case CollectionCertifications:
		for i := range r.Certifications {
			if r.Certifications[i].ID != id {
				continue
			}
			c := &r.Certifications[i]
			switch field {
			case "name":
				c.Name = value
			case "issuer":
				c.Issuer = value
			case "date":
				c.Date = value
			case "url":
				c.URL = value
			default:
				return unknown
			}
			return nil
		}
	case CollectionProjects:
		for i := range r.Projects {
			if r.Projects[i].ID != id {
				continue
			}
			p := &r.Projects[i]
			switch field {
			case "name":
				p.Name = value
			case "description":
				p.Description = value
			case "url":
				p.URL = value
			case "startDate":
				p.StartDate = value
			case "endDate":
				p.EndDate = value
			case "technologies":
				p.Technologies = SplitList(value)
			default:
				return unknown
			}
			return nil
		}
	case CollectionLanguages:
		for i := range r.Languages {
			if r.Languages[i].ID != id {
				continue
			}
			l := &r.Languages[i]
			switch field {
			case "name":
				l.Name = value
			case "proficiency":
				n, err := parseProficiency(value)
				if err != nil {
					return &FieldError{Field: path, Message: err.Error()}
				}
				l.Proficiency = n
			default:
				return unknown
			}
			return nil
		}
	case CollectionReferences:
		for i := range r.References {
			if r.References[i].ID != id {
				continue
			}
			ref := &r.References[i]
			switch field {
			case "name":
				ref.Name = value
			case "position":
				ref.Position = value
			case "company":
				ref.Company = value
			case "email":
				ref.Email = value
			case "phone":
				ref.Phone = value
			case "relationship":
				ref.Relationship = value
			default:
				return unknown
			}
			return nil
		}
	default:
		return &FieldError{Field: string(c), Message: "unknown collection"}
	}
	return notFound
}

func parseProficiency(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("must be an integer between 0 and %d", MaxProficiency)
	}
	if n < 0 || n > MaxProficiency {
		return 0, fmt.Errorf("must be between 0 and %d", MaxProficiency)
	}
	return n, nil
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
