// Package schemas holds the JSON Schema documents for API payloads.
package schemas

import _ "embed"

// Template is the schema of a structured template layout.
//
//go:embed template.schema.json
var Template string

// Resume is the schema of a resume document.
//
//go:embed resume.schema.json
var Resume string
