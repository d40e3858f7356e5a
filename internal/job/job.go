// Package job holds the domain model for extracted job postings and the
// confidence heuristic applied to them. All values are immutable per
// extraction call; nothing here survives the call that produced it.
package job

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// WorkLocation is the remote/hybrid/on-site arrangement.
type WorkLocation string

const (
	WorkLocationRemote WorkLocation = "remote"
	WorkLocationHybrid WorkLocation = "hybrid"
	WorkLocationOnSite WorkLocation = "on_site"
)

func (w WorkLocation) IsValid() bool {
	switch w {
	case WorkLocationRemote, WorkLocationHybrid, WorkLocationOnSite:
		return true
	}
	return false
}

// EmploymentType is the kind of employment offered.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentTemporary  EmploymentType = "temporary"
	EmploymentInternship EmploymentType = "internship"
	EmploymentFreelance  EmploymentType = "freelance"
)

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract,
		EmploymentTemporary, EmploymentInternship, EmploymentFreelance:
		return true
	}
	return false
}

// ExperienceLevel is the seniority required by the posting.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

func (e ExperienceLevel) IsValid() bool {
	switch e {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}

// DefaultCurrency is assumed when the posting mentions a salary without a
// currency code.
const DefaultCurrency = "EUR"

// SalaryRange is the salary information of a posting, if mentioned.
type SalaryRange struct {
	Min      *int   `json:"min"`
	Max      *int   `json:"max"`
	Currency string `json:"currency"`
}

// JobPosting is the extracted entity. JobTitle and Company are always
// present after a successful extraction; absent optional fields are null or
// empty, never omitted from the JSON representation.
type JobPosting struct {
	JobTitle            string           `json:"job_title"`
	Company             string           `json:"company"`
	Location            *string          `json:"location"`
	WorkLocation        *WorkLocation    `json:"work_location"`
	EmploymentType      *EmploymentType  `json:"employment_type"`
	ExperienceLevel     *ExperienceLevel `json:"experience_level"`
	Salary              *SalaryRange     `json:"salary"`
	Requirements        []string         `json:"requirements"`
	NiceToHave          []string         `json:"nice_to_have"`
	Responsibilities    []string         `json:"responsibilities"`
	Benefits            []string         `json:"benefits"`
	ApplicationURL      *string          `json:"application_url"`
	ApplicationDeadline *Date            `json:"application_deadline"`
	PostedDate          *Date            `json:"posted_date"`
}

// applyDefaults fills values the model is allowed to leave out.
func (p *JobPosting) applyDefaults() {
	if p.Salary != nil && strings.TrimSpace(p.Salary.Currency) == "" {
		p.Salary.Currency = DefaultCurrency
	}
}

// Validate checks the invariants of a posting: required fields are
// non-empty, enum values belong to their closed sets and the application URL
// is an absolute http(s) URL.
func (p *JobPosting) Validate() error {
	if strings.TrimSpace(p.JobTitle) == "" {
		return errors.New("job_title is required")
	}
	if strings.TrimSpace(p.Company) == "" {
		return errors.New("company is required")
	}
	if p.WorkLocation != nil && !p.WorkLocation.IsValid() {
		return fmt.Errorf("invalid work_location %q", *p.WorkLocation)
	}
	if p.EmploymentType != nil && !p.EmploymentType.IsValid() {
		return fmt.Errorf("invalid employment_type %q", *p.EmploymentType)
	}
	if p.ExperienceLevel != nil && !p.ExperienceLevel.IsValid() {
		return fmt.Errorf("invalid experience_level %q", *p.ExperienceLevel)
	}
	if p.ApplicationURL != nil {
		if err := validateHTTPURL(*p.ApplicationURL); err != nil {
			return fmt.Errorf("invalid application_url: %w", err)
		}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// UsageInfo reports token consumption for a single backend call.
type UsageInfo struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// RawExtractionResult is the backend-facing extraction result, before any
// business logic is applied.
type RawExtractionResult struct {
	Job *JobPosting `json:"job"`
	// RawResponse is the structured payload the model actually returned,
	// kept as an opaque string for debugging.
	RawResponse string    `json:"raw_response"`
	Model       string    `json:"model"`
	Usage       UsageInfo `json:"usage"`
}

// ExtractionResponse is the caller-facing result: the raw result plus the
// derived confidence level.
type ExtractionResponse struct {
	Job         *JobPosting `json:"job"`
	Confidence  Confidence  `json:"confidence"`
	RawResponse string      `json:"raw_response"`
	Model       string      `json:"model"`
	Usage       UsageInfo   `json:"usage"`
}
