package layout

// fieldSpec is a compact description of one default field.
type fieldSpec struct {
	key      string
	label    string
	kind     InputKind
	required bool
}

var defaultFieldMaps = map[SectionType][]fieldSpec{
	SectionHeader: {
		{"name", "Full Name", InputText, true},
		{"title", "Professional Title", InputText, false},
		{"email", "Email", InputEmail, true},
		{"phone", "Phone", InputText, false},
		{"location", "Location", InputText, false},
		{"website", "Website", InputURL, false},
		{"linkedin", "LinkedIn", InputURL, false},
		{"github", "GitHub", InputURL, false},
		{"photoUrl", "Photo", InputURL, false},
	},
	SectionSummary: {
		{"summary", "Summary", InputTextarea, false},
	},
	SectionExperience: {
		{"position", "Position", InputText, true},
		{"company", "Company", InputText, true},
		{"location", "Location", InputText, false},
		{"startDate", "Start Date", InputDate, false},
		{"endDate", "End Date", InputDate, false},
		{"description", "Description", InputTextarea, false},
	},
	SectionEducation: {
		{"degree", "Degree", InputText, true},
		{"field", "Field of Study", InputText, false},
		{"institution", "Institution", InputText, true},
		{"startDate", "Start Date", InputDate, false},
		{"endDate", "End Date", InputDate, false},
		{"gpa", "GPA", InputText, false},
		{"description", "Description", InputTextarea, false},
	},
	SectionSkills: {
		{"name", "Skill", InputText, true},
		{"level", "Level", InputNumber, false},
		{"category", "Category", InputText, false},
	},
	SectionLanguages: {
		{"name", "Language", InputText, true},
		{"proficiency", "Proficiency", InputNumber, false},
	},
	SectionReferences: {
		{"name", "Name", InputText, true},
		{"position", "Position", InputText, false},
		{"company", "Company", InputText, false},
		{"email", "Email", InputEmail, false},
		{"phone", "Phone", InputText, false},
		{"relationship", "Relationship", InputText, false},
	},
	SectionProjects: {
		{"name", "Project", InputText, true},
		{"description", "Description", InputTextarea, false},
		{"technologies", "Technologies", InputText, false},
		{"url", "Link", InputURL, false},
		{"startDate", "Start Date", InputDate, false},
		{"endDate", "End Date", InputDate, false},
	},
	SectionCertifications: {
		{"name", "Certification", InputText, true},
		{"issuer", "Issuer", InputText, false},
		{"date", "Date", InputDate, false},
		{"url", "Link", InputURL, false},
	},
	SectionCustom: {
		{"highlights", "Highlights", InputTextarea, false},
		{"affiliations", "Affiliations", InputTextarea, false},
		{"interests", "Interests", InputTextarea, false},
	},
}

// DefaultFields returns a fresh field map with every default field of t enabled.
// Unknown types get an empty map.
func DefaultFields(t SectionType) FieldMap {
	specs := defaultFieldMaps[t]
	out := make(FieldMap, 0, len(specs))
	for _, s := range specs {
		out = append(out, Field{
			Key: s.key,
			FieldConfig: FieldConfig{
				Enabled:   true,
				Label:     s.label,
				InputKind: s.kind,
				Required:  s.required,
			},
		})
	}
	return out
}

// DefaultTitle is the heading given to a new section of type t.
func DefaultTitle(t SectionType) string {
	switch t {
	case SectionHeader:
		return ""
	case SectionSummary:
		return "Summary"
	case SectionExperience:
		return "Experience"
	case SectionEducation:
		return "Education"
	case SectionSkills:
		return "Skills"
	case SectionLanguages:
		return "Languages"
	case SectionReferences:
		return "References"
	case SectionProjects:
		return "Projects"
	case SectionCertifications:
		return "Certifications"
	}
	return "Additional Information"
}
