// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Collection names a repeatable list inside a Resume.
type Collection string

// Collections that a template section can iterate over.
const (
	CollectionExperience     Collection = "experience"
	CollectionEducation      Collection = "education"
	CollectionSkills         Collection = "skills"
	CollectionCertifications Collection = "certifications"
	CollectionProjects       Collection = "projects"
	CollectionLanguages      Collection = "languages"
	CollectionReferences     Collection = "references"
)

// AllCollections lists every repeatable collection in display order.
var AllCollections = []Collection{
	CollectionExperience,
	CollectionEducation,
	CollectionSkills,
	CollectionCertifications,
	CollectionProjects,
	CollectionLanguages,
	CollectionReferences,
}

// MaxProficiency is the upper bound for skill levels and language proficiency.
const MaxProficiency = 5

// Resume is one profile's structured resume data.
type Resume struct {
	// Identity
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	PhotoURL string `json:"photoUrl"`

	// Free text
	Summary      string `json:"summary"`
	Highlights   string `json:"highlights"`
	Affiliations string `json:"affiliations"`
	Interests    string `json:"interests"`

	// Repeatable collections, never nil after Normalize
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Languages      []Language      `json:"languages"`
	References     []Reference     `json:"references"`
}

// Experience is a work history entry.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Education is a schooling entry.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

// Skill is a named skill with a 0-5 proficiency.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category"`
}

// Certification is a professional certification.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// Project is a portfolio project.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

// Language is a spoken language with a 0-5 proficiency.
type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
}

// Reference is a professional reference.
type Reference struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// NewResume returns an empty, normalized resume.
func NewResume() *Resume {
	r := &Resume{}
	r.Normalize()
	return r
}

// Normalize makes every collection a non-nil list, assigns missing or duplicate
// entry IDs and clamps proficiency values to 0-5.
func (r *Resume) Normalize() {
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.References == nil {
		r.References = []Reference{}
	}

	seen := make(map[string]bool)
	ensureID := func(id *string) {
		if *id == "" || seen[*id] {
			*id = uuid.NewString()
		}
		seen[*id] = true
	}

	for i := range r.Experience {
		ensureID(&r.Experience[i].ID)
	}
	for i := range r.Education {
		ensureID(&r.Education[i].ID)
	}
	for i := range r.Skills {
		ensureID(&r.Skills[i].ID)
		r.Skills[i].Level = clampProficiency(r.Skills[i].Level)
	}
	for i := range r.Certifications {
		ensureID(&r.Certifications[i].ID)
	}
	for i := range r.Projects {
		ensureID(&r.Projects[i].ID)
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
	for i := range r.Languages {
		ensureID(&r.Languages[i].ID)
		r.Languages[i].Proficiency = clampProficiency(r.Languages[i].Proficiency)
	}
	for i := range r.References {
		ensureID(&r.References[i].ID)
	}
}

func clampProficiency(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxProficiency {
		return MaxProficiency
	}
	return v
}

// Fields returns the scalar placeholder values keyed by field name.
func (r *Resume) Fields() map[string]string {
	return map[string]string{
		"name":         r.Name,
		"title":        r.Title,
		"email":        r.Email,
		"phone":        r.Phone,
		"location":     r.Location,
		"website":      r.Website,
		"linkedin":     r.LinkedIn,
		"github":       r.GitHub,
		"photoUrl":     r.PhotoURL,
		"summary":      r.Summary,
		"highlights":   r.Highlights,
		"affiliations": r.Affiliations,
		"interests":    r.Interests,
	}
}

// Entries returns one placeholder map per entry of the collection, in stored order.
// The second return value is false for an unknown collection.
func (r *Resume) Entries(c Collection) ([]map[string]string, bool) {
	var out []map[string]string
	switch c {
	case CollectionExperience:
		for _, e := range r.Experience {
			out = append(out, map[string]string{
				"id":          e.ID,
				"company":     e.Company,
				"position":    e.Position,
				"location":    e.Location,
				"startDate":   e.StartDate,
				"endDate":     e.EndDate,
				"current":     strconv.FormatBool(e.Current),
				"description": e.Description,
			})
		}
	case CollectionEducation:
		for _, e := range r.Education {
			out = append(out, map[string]string{
				"id":          e.ID,
				"institution": e.Institution,
				"degree":      e.Degree,
				"field":       e.Field,
				"startDate":   e.StartDate,
				"endDate":     e.EndDate,
				"gpa":         e.GPA,
				"description": e.Description,
			})
		}
	case CollectionSkills:
		for _, s := range r.Skills {
			out = append(out, map[string]string{
				"id":       s.ID,
				"name":     s.Name,
				"level":    strconv.Itoa(s.Level),
				"category": s.Category,
			})
		}
	case CollectionCertifications:
		for _, c := range r.Certifications {
			out = append(out, map[string]string{
				"id":     c.ID,
				"name":   c.Name,
				"issuer": c.Issuer,
				"date":   c.Date,
				"url":    c.URL,
			})
		}
	case CollectionProjects:
		for _, p := range r.Projects {
			out = append(out, map[string]string{
				"id":           p.ID,
				"name":         p.Name,
				"description":  p.Description,
				"url":          p.URL,
				"technologies": strings.Join(p.Technologies, ", "),
				"startDate":    p.StartDate,
				"endDate":      p.EndDate,
			})
		}
	case CollectionLanguages:
		for _, l := range r.Languages {
			out = append(out, map[string]string{
				"id":          l.ID,
				"name":        l.Name,
				"proficiency": strconv.Itoa(l.Proficiency),
			})
		}
	case CollectionReferences:
		for _, ref := range r.References {
			out = append(out, map[string]string{
				"id":           ref.ID,
				"name":         ref.Name,
				"position":     ref.Position,
				"company":      ref.Company,
				"email":        ref.Email,
				"phone":        ref.Phone,
				"relationship": ref.Relationship,
			})
		}
	default:
		return nil, false
	}
	if out == nil {
		out = []map[string]string{}
	}
	return out, true
}
