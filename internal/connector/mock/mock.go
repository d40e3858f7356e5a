// Package mock provides a deterministic connector for offline development
// and testing. It implements the same capability set as the Gemini connector
// without any network calls.
package mock

import (
	"context"
	"encoding/json"

	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/job"
)

const modelName = "mock-model"

// Connector always returns the same extraction result.
type Connector struct{}

func New() *Connector {
	return &Connector{}
}

func (c *Connector) Initialize(_ context.Context) error { return nil }

func (c *Connector) Cleanup() error { return nil }

func (c *Connector) HealthCheck(_ context.Context) *connector.HealthStatus {
	return &connector.HealthStatus{Status: connector.StatusHealthy, Model: modelName}
}

func (c *Connector) SendMessage(_ context.Context, _ string, _ int) (*connector.Message, error) {
	return &connector.Message{
		Response: "ok",
		Model:    modelName,
		Usage:    job.UsageInfo{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func (c *Connector) ExtractJobPosting(_ context.Context, _ string) (*job.RawExtractionResult, error) {
	posting := SamplePosting()

	raw, err := json.Marshal(posting)
	if err != nil {
		return nil, err
	}

	return &job.RawExtractionResult{
		Job:         posting,
		RawResponse: string(raw),
		Model:       modelName,
		Usage:       job.UsageInfo{InputTokens: 100, OutputTokens: 200},
	}, nil
}

// SamplePosting is the canned extraction payload: eight of the nine optional
// signals are populated, so the derived confidence is high.
func SamplePosting() *job.JobPosting {
	location := "Berlin, Germany"
	workLocation := job.WorkLocationHybrid
	employment := job.EmploymentFullTime
	experience := job.ExperienceSenior
	salaryMin := 70000
	salaryMax := 90000
	applicationURL := "https://techcorp.com/careers/python-dev"

	return &job.JobPosting{
		JobTitle:        "Senior Python Developer",
		Company:         "TechCorp",
		Location:        &location,
		WorkLocation:    &workLocation,
		EmploymentType:  &employment,
		ExperienceLevel: &experience,
		Salary: &job.SalaryRange{
			Min:      &salaryMin,
			Max:      &salaryMax,
			Currency: job.DefaultCurrency,
		},
		Requirements: []string{
			"5+ years Python experience",
			"Experience with FastAPI or Django",
			"Strong understanding of REST APIs",
			"Knowledge of PostgreSQL",
		},
		NiceToHave: []string{
			"Experience with Docker/Kubernetes",
			"Cloud platform experience (AWS/GCP)",
		},
		Responsibilities: []string{},
		Benefits: []string{
			"Competitive salary (70,000 - 90,000)",
			"30 days vacation",
			"Remote work flexibility",
			"Learning budget",
		},
		ApplicationURL: &applicationURL,
	}
}
