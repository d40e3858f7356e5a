package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestJobExtractionToolMatchesModel(t *testing.T) {
	if err := validateToolSchema(jobExtractionTool()); err != nil {
		t.Fatalf("declared tool should match the job model: %v", err)
	}
}

func TestValidateToolSchemaDetectsDrift(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		decl := jobExtractionTool()
		delete(decl.Parameters.Properties, "benefits")
		if err := validateToolSchema(decl); err == nil {
			t.Fatal("expected error for missing field")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		decl := jobExtractionTool()
		decl.Parameters.Properties["visa_sponsorship"] = &genai.Schema{Type: genai.TypeBoolean}
		if err := validateToolSchema(decl); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("missing salary field", func(t *testing.T) {
		decl := jobExtractionTool()
		delete(decl.Parameters.Properties["salary"].Properties, "currency")
		if err := validateToolSchema(decl); err == nil {
			t.Fatal("expected error for missing salary field")
		}
	})

	t.Run("wrong required set", func(t *testing.T) {
		decl := jobExtractionTool()
		decl.Parameters.Required = []string{"job_title"}
		if err := validateToolSchema(decl); err == nil {
			t.Fatal("expected error for wrong required fields")
		}
	})

	t.Run("no parameters", func(t *testing.T) {
		decl := &genai.FunctionDeclaration{Name: extractionToolName}
		if err := validateToolSchema(decl); err == nil {
			t.Fatal("expected error for nil parameters")
		}
	})
}
