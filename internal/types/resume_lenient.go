//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResumeFromMap builds a Resume from loosely typed data, such as model output.
// Every key is optional; numbers given as strings and strings given as numbers are
// both accepted, and snake_case keys are accepted alongside camelCase ones.
func ResumeFromMap(m map[string]any) *Resume {
	r := &Resume{}
	if m == nil {
		r.Normalize()
		return r
	}

	// Some extractors nest identity fields under "contact" or "profile".
	flat := make(map[string]any, len(m))
	for _, nested := range []string{"profile", "contact", "personalInfo", "personal_info"} {
		if sub, ok := m[nested].(map[string]any); ok {
			for k, v := range sub {
				flat[k] = v
			}
		}
	}
	for k, v := range m {
		flat[k] = v
	}

	r.Name = lookupString(flat, "name", "fullName", "full_name")
	r.Title = lookupString(flat, "title", "headline", "jobTitle", "job_title")
	r.Email = lookupString(flat, "email")
	r.Phone = lookupString(flat, "phone")
	r.Location = lookupString(flat, "location", "address")
	r.Website = lookupString(flat, "website", "url")
	r.LinkedIn = lookupString(flat, "linkedin", "linkedIn")
	r.GitHub = lookupString(flat, "github", "gitHub")
	r.PhotoURL = lookupString(flat, "photoUrl", "photo_url", "photo")
	r.Summary = lookupString(flat, "summary", "objective")
	r.Highlights = lookupString(flat, "highlights")
	r.Affiliations = lookupString(flat, "affiliations")
	r.Interests = lookupString(flat, "interests", "hobbies")

	for _, e := range lookupList(flat, "experience", "workExperience", "work_experience") {
		r.Experience = append(r.Experience, Experience{
			ID:          lookupString(e, "id"),
			Company:     lookupString(e, "company", "employer", "organization"),
			Position:    lookupString(e, "position", "title", "role"),
			Location:    lookupString(e, "location"),
			StartDate:   lookupString(e, "startDate", "start_date"),
			EndDate:     lookupString(e, "endDate", "end_date"),
			Current:     lookupBool(e, "current", "isCurrent", "is_current"),
			Description: lookupString(e, "description", "summary", "bullets"),
		})
	}
	for _, e := range lookupList(flat, "education") {
		r.Education = append(r.Education, Education{
			ID:          lookupString(e, "id"),
			Institution: lookupString(e, "institution", "school", "university"),
			Degree:      lookupString(e, "degree"),
			Field:       lookupString(e, "field", "fieldOfStudy", "field_of_study", "major"),
			StartDate:   lookupString(e, "startDate", "start_date"),
			EndDate:     lookupString(e, "endDate", "end_date"),
			GPA:         lookupString(e, "gpa", "GPA"),
			Description: lookupString(e, "description"),
		})
	}
	for _, e := range lookupList(flat, "skills") {
		r.Skills = append(r.Skills, Skill{
			ID:       lookupString(e, "id"),
			Name:     lookupString(e, "name", "skill"),
			Level:    lookupInt(e, "level", "proficiency"),
			Category: lookupString(e, "category"),
		})
	}
	for _, e := range lookupList(flat, "certifications", "certificates") {
		r.Certifications = append(r.Certifications, Certification{
			ID:     lookupString(e, "id"),
			Name:   lookupString(e, "name", "title"),
			Issuer: lookupString(e, "issuer", "organization"),
			Date:   lookupString(e, "date", "issueDate", "issue_date"),
			URL:    lookupString(e, "url", "link"),
		})
	}
	for _, e := range lookupList(flat, "projects") {
		r.Projects = append(r.Projects, Project{
			ID:           lookupString(e, "id"),
			Name:         lookupString(e, "name", "title"),
			Description:  lookupString(e, "description"),
			URL:          lookupString(e, "url", "link"),
			Technologies: lookupStrings(e, "technologies", "stack", "tech"),
			StartDate:    lookupString(e, "startDate", "start_date"),
			EndDate:      lookupString(e, "endDate", "end_date"),
		})
	}
	for _, e := range lookupList(flat, "languages") {
		r.Languages = append(r.Languages, Language{
			ID:          lookupString(e, "id"),
			Name:        lookupString(e, "name", "language"),
			Proficiency: lookupInt(e, "proficiency", "level"),
		})
	}
	for _, e := range lookupList(flat, "references") {
		r.References = append(r.References, Reference{
			ID:           lookupString(e, "id"),
			Name:         lookupString(e, "name"),
			Position:     lookupString(e, "position", "title"),
			Company:      lookupString(e, "company"),
			Email:        lookupString(e, "email"),
			Phone:        lookupString(e, "phone"),
			Relationship: lookupString(e, "relationship"),
		})
	}

	r.Normalize()
	return r
}

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	return asString(v)
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func lookupInt(m map[string]any, keys ...string) int {
	v, ok := lookup(m, keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(math.Round(t))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(math.Round(f))
		}
	}
	return 0
}

func lookupBool(m map[string]any, keys ...string) bool {
	v, ok := lookup(m, keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}

func lookupStrings(m map[string]any, keys ...string) []string {
	v, ok := lookup(m, keys...)
	if !ok {
		return []string{}
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return SplitList(t)
	}
	return []string{}
}

func lookupList(m map[string]any, keys ...string) []map[string]any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			out = append(out, t)
		case string:
			// Bare strings become a single named entry.
			out = append(out, map[string]any{"name": t})
		}
	}
	return out
}
