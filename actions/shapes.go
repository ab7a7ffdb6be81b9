package actions

import (
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Declared input shapes, one per entry point
const (
	searchShape = `{
		"type": "object",
		"properties": {
			"query": {"type": "string", "minLength": 1, "pattern": "\\S"}
		},
		"required": ["query"]
	}`

	importShape = `{
		"type": "object",
		"properties": {
			"sheetUrl": {"type": "string", "format": "uri", "pattern": "^https?://"}
		},
		"required": ["sheetUrl"]
	}`

	authorizeShape = `{
		"type": "object",
		"properties": {
			"code": {"type": "string", "minLength": 1, "pattern": "\\S"}
		},
		"required": ["code"]
	}`
)

type shapes struct {
	search    *jsonschema.Schema
	importer  *jsonschema.Schema
	authorize *jsonschema.Schema
}

func compileShapes() (shapes, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	var s shapes
	var err error
	if s.search, err = compileShape(c, "search.json", searchShape); err != nil {
		return shapes{}, err
	}
	if s.importer, err = compileShape(c, "import.json", importShape); err != nil {
		return shapes{}, err
	}
	if s.authorize, err = compileShape(c, "authorize.json", authorizeShape); err != nil {
		return shapes{}, err
	}
	return s, nil
}

func compileShape(c *jsonschema.Compiler, name, doc string) (*jsonschema.Schema, error) {
	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	if err := c.AddResource(name, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	schema, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return schema, nil
}

// DecodeInput reads a JSON document into the generic form the shapes validate
func DecodeInput(r io.Reader) (any, error) {
	return jsonschema.UnmarshalJSON(r)
}

// stringField returns a validated string property of an object input
func stringField(input any, name string) string {
	obj, _ := input.(map[string]any)
	s, _ := obj[name].(string)
	return strings.TrimSpace(s)
}
