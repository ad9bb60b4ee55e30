package schemas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"template.schema.json",
	"resume.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestEmbeddedSchemasMatchFiles(t *testing.T) {
	embedded := map[string]string{
		"template.schema.json": schemas.Template,
		"resume.schema.json":   schemas.Resume,
	}
	for name, content := range embedded {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, string(data), content, name)
	}
}

func TestTemplateSchema_SectionTypesMatchLayoutTypes(t *testing.T) {
	var schemaObj struct {
		Definitions struct {
			Section struct {
				Properties struct {
					Type struct {
						Enum []string `json:"enum"`
					} `json:"type"`
				} `json:"properties"`
			} `json:"section"`
		} `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(schemas.Template), &schemaObj))

	assert.ElementsMatch(t, []string{
		"header", "summary", "experience", "education", "skills", "languages",
		"references", "projects", "certifications", "custom",
	}, schemaObj.Definitions.Section.Properties.Type.Enum)
}
