package models

import dErrors "aqualert/pkg/domain-errors"

// IncidentReport is a transient value object describing one water-quality
// event. It is constructed per report request, consumed by the processor,
// and discarded after dispatch; nothing persists it.
type IncidentReport struct {
	OrganizationID       string `json:"organization_id"`
	ReporterName         string `json:"reporter_name"`
	ReporterEmail        string `json:"reporter_email"`
	IncidentType         string `json:"incident_type"`
	SeverityLevel        string `json:"severity_level"`
	Description          string `json:"description"`
	AffectedMunicipality string `json:"affected_municipality"`
}

// Validate checks the fields dispatch depends on. Description and reporter
// name are informational and may be empty.
func (r IncidentReport) Validate() error {
	switch {
	case r.OrganizationID == "":
		return dErrors.New(dErrors.CodeValidation, "organization_id is required")
	case r.IncidentType == "":
		return dErrors.New(dErrors.CodeValidation, "incident_type is required")
	case r.SeverityLevel == "":
		return dErrors.New(dErrors.CodeValidation, "severity_level is required")
	case r.AffectedMunicipality == "":
		return dErrors.New(dErrors.CodeValidation, "affected_municipality is required")
	}
	return nil
}

// DispatchOutcome is returned to the reporting caller. Not persisted.
type DispatchOutcome struct {
	Authorized     bool `json:"authorized"`
	RecipientCount int  `json:"recipient_count"`
	FailureCount   int  `json:"failure_count"`
}
