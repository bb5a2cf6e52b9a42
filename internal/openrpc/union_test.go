package openrpc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResultUnion(t *testing.T) {
	success := &Schema{Type: "integer", Title: "task_id"}
	failure := &Schema{Enum: []interface{}{false}}

	t.Run("pair", func(t *testing.T) {
		got := ResultUnion(success, failure)
		require.Len(t, got.OneOf, 2)
		assert.Equal(t, "integer", got.OneOf[0].Type)
		assert.Equal(t, "task_id", got.OneOf[0].Title)
		assert.Equal(t, OnSuccess, got.OneOf[0].Description)
		assert.Equal(t, []interface{}{false}, got.OneOf[1].Enum)
		assert.Equal(t, OnFailure, got.OneOf[1].Description)

		// inputs are not modified
		assert.Empty(t, success.Description)
		assert.Empty(t, failure.Description)
	})

	t.Run("success only", func(t *testing.T) {
		got := ResultUnion(success, nil)
		assert.Nil(t, got.OneOf)
		assert.Equal(t, "integer", got.Type)
		assert.Equal(t, OnSuccess, got.Description)
	})

	t.Run("failure only", func(t *testing.T) {
		got := ResultUnion(nil, failure)
		assert.Equal(t, OnFailure, got.Description)
	})

	t.Run("neither", func(t *testing.T) {
		assert.Nil(t, ResultUnion(nil, nil))
	})
}

func TestCloneIsDeep(t *testing.T) {
	zero := 0
	orig := &Schema{
		Type:     "array",
		Items:    &Schema{Type: "string"},
		Enum:     []interface{}{"a"},
		MaxItems: &zero,
		OneOf:    []*Schema{{Type: "integer"}},
	}
	c := orig.Clone()
	c.Items.Type = "integer"
	c.Enum[0] = "b"
	*c.MaxItems = 3
	c.OneOf[0].Type = "string"

	assert.Equal(t, "string", orig.Items.Type)
	assert.Equal(t, "a", orig.Enum[0])
	assert.Equal(t, 0, *orig.MaxItems)
	assert.Equal(t, "integer", orig.OneOf[0].Type)

	var nilSchema *Schema
	assert.Nil(t, nilSchema.Clone())
}

func sampleDocument() *Document {
	zero := 0
	doc := NewDocument("Kanboard", "1.0.0", "")
	doc.Methods = append(doc.Methods, Method{
		Name:    "createTask",
		Summary: "Create a new task",
		Tags:    []Tag{{Name: "task_procedures"}},
		Params: []ContentDescriptor{
			{Name: "project_id", Summary: "integer", Schema: &Schema{Type: "integer"}, Required: true},
			{Name: "color_id", Summary: "string, optional", Schema: &Schema{Type: "string"}},
		},
		Result: &ContentDescriptor{
			Name:   "result",
			Schema: &Schema{Type: "array", MaxItems: &zero},
		},
		ExternalDocs: &ExternalDocs{URL: "https://docs.kanboard.org/v1/api/task_procedures/#createtask"},
	})
	return doc
}

func TestMarshalJSON(t *testing.T) {
	data, err := Marshal(sampleDocument(), "json")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.2.6", raw["openrpc"])

	method := raw["methods"].([]interface{})[0].(map[string]interface{})
	params := method["params"].([]interface{})
	assert.Equal(t, true, params[0].(map[string]interface{})["required"])
	_, hasRequired := params[1].(map[string]interface{})["required"]
	assert.False(t, hasRequired)

	result := method["result"].(map[string]interface{})["schema"].(map[string]interface{})
	assert.Equal(t, float64(0), result["maxItems"])
}

func TestMarshalEmptyParams(t *testing.T) {
	doc := NewDocument("t", "1", "")
	doc.Methods = append(doc.Methods, Method{
		Name:   "getVersion",
		Params: []ContentDescriptor{},
		Result: &ContentDescriptor{Name: "result", Schema: &Schema{Type: "string"}},
	})
	data, err := Marshal(doc, "json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"params": []`)
}

func TestMarshalYAML(t *testing.T) {
	data, err := Marshal(sampleDocument(), "yaml")
	require.NoError(t, err)

	var back Document
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "createTask", back.Methods[0].Name)
	assert.Equal(t, "https://docs.kanboard.org/v1/api/task_procedures/#createtask", back.Methods[0].ExternalDocs.URL)
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal(sampleDocument(), "toml")
	assert.Error(t, err)
}

func TestNullEnumSurvivesEncoding(t *testing.T) {
	s := &Schema{Enum: []interface{}{nil}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enum":[null]}`, string(data))
}
