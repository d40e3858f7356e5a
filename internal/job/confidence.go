package job

// Confidence is a heuristic completeness score over the optional fields of a
// posting. It is derived purely from field population, never from token
// usage or the model identity.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// EstimateConfidence scores how many of the nine optional signals were
// extracted. The required fields do not count; an empty list counts as
// absent.
//
//	>= 6 populated: high
//	3..5 populated: medium
//	<= 2 populated: low
func EstimateConfidence(p *JobPosting) Confidence {
	signals := []bool{
		p.Location != nil,
		p.WorkLocation != nil,
		p.EmploymentType != nil,
		p.ExperienceLevel != nil,
		p.Salary != nil,
		len(p.Requirements) > 0,
		len(p.NiceToHave) > 0,
		len(p.Responsibilities) > 0,
		len(p.Benefits) > 0,
	}

	populated := 0
	for _, present := range signals {
		if present {
			populated++
		}
	}

	switch {
	case populated >= 6:
		return ConfidenceHigh
	case populated >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
