package validation

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "count": {"type": "integer", "minimum": 1}
  },
  "required": ["name"],
  "additionalProperties": false
}`

func TestCompileRejectsBrokenSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidateAcceptsYAMLShapedDocument(t *testing.T) {
	schema := MustCompile("test.json", []byte(testSchema))
	doc := map[string]any{"name": "weekly", "count": 5}
	if err := schema.Validate(doc); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestValidateCollectsIssues(t *testing.T) {
	schema := MustCompile("test.json", []byte(testSchema))
	err := schema.Validate(map[string]any{"count": 0, "extra": true})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected several issues, got %+v", issues)
	}
	if !strings.Contains(err.Error(), "#") {
		t.Fatalf("expected locations in message, got %q", err.Error())
	}
}

func TestIssuesWrapsPlainErrors(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}
