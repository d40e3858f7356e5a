package gemini

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/spigell/job-extractor/internal/job"

	"google.golang.org/genai"
)

const extractionToolName = "extract_job_posting"

// jobExtractionTool is the structured-output contract given to the model.
// It must enumerate every job.JobPosting field exactly, including the salary
// sub-fields and enum value sets; validateToolSchema enforces that at
// construction so the wire contract cannot drift from the domain model.
func jobExtractionTool() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        extractionToolName,
		Description: "Extract structured job posting information from text",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"job_title": {
					Type:        genai.TypeString,
					Description: "Job title/position",
				},
				"company": {
					Type:        genai.TypeString,
					Description: "Company name",
				},
				"location": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Description: "Location (city, state, country)",
				},
				"work_location": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Enum:        []string{"remote", "hybrid", "on_site"},
					Description: "Remote/hybrid/on-site work arrangement",
				},
				"employment_type": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Enum:        []string{"full_time", "part_time", "contract", "temporary", "internship", "freelance"},
					Description: "Type of employment",
				},
				"experience_level": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Enum:        []string{"entry", "mid", "senior", "lead"},
					Description: "Required experience level",
				},
				"salary": {
					Type:        genai.TypeObject,
					Nullable:    genai.Ptr(true),
					Description: "Salary range information",
					Properties: map[string]*genai.Schema{
						"min":      {Type: genai.TypeInteger, Nullable: genai.Ptr(true), Description: "Minimum salary"},
						"max":      {Type: genai.TypeInteger, Nullable: genai.Ptr(true), Description: "Maximum salary"},
						"currency": {Type: genai.TypeString, Description: "Currency code (ISO 4217), default EUR"},
					},
				},
				"requirements": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Required skills/qualifications",
				},
				"nice_to_have": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Preferred/nice-to-have skills",
				},
				"responsibilities": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Key job responsibilities",
				},
				"benefits": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Benefits offered",
				},
				"application_url": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Description: "URL to apply",
				},
				"application_deadline": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Description: "Deadline in YYYY-MM-DD format",
				},
				"posted_date": {
					Type:        genai.TypeString,
					Nullable:    genai.Ptr(true),
					Description: "Posting date in YYYY-MM-DD format",
				},
			},
			Required: []string{"job_title", "company"},
		},
	}
}

// validateToolSchema compares the declaration field-for-field against the
// domain model. It runs once at connector construction.
func validateToolSchema(decl *genai.FunctionDeclaration) error {
	if decl.Parameters == nil {
		return fmt.Errorf("tool %s has no parameters", decl.Name)
	}

	props := decl.Parameters.Properties

	want := jsonFieldNames(reflect.TypeOf(job.JobPosting{}))
	for _, name := range want {
		if _, ok := props[name]; !ok {
			return fmt.Errorf("tool schema is missing job field %q", name)
		}
	}
	for name := range props {
		if !slices.Contains(want, name) {
			return fmt.Errorf("tool schema field %q has no counterpart in the job model", name)
		}
	}

	salary, ok := props["salary"]
	if !ok || salary.Properties == nil {
		return fmt.Errorf("tool schema is missing the salary object")
	}
	wantSalary := jsonFieldNames(reflect.TypeOf(job.SalaryRange{}))
	for _, name := range wantSalary {
		if _, ok := salary.Properties[name]; !ok {
			return fmt.Errorf("tool schema is missing salary field %q", name)
		}
	}
	for name := range salary.Properties {
		if !slices.Contains(wantSalary, name) {
			return fmt.Errorf("tool schema salary field %q has no counterpart in the job model", name)
		}
	}

	if !slices.Equal(decl.Parameters.Required, []string{"job_title", "company"}) {
		return fmt.Errorf("tool schema required fields %v do not match the job model", decl.Parameters.Required)
	}

	return nil
}

func jsonFieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		names = append(names, name)
	}
	return names
}
