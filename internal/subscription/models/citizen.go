package models

import (
	"strings"

	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/email"
)

// Citizen is a registered recipient of localized alerts.
//
// Invariants:
//   - Email is normalized (trimmed, lower-cased) and is the identity key:
//     at most one record exists per normalized email
//   - Municipality is non-empty; values come from a controlled vocabulary
//     and are matched case-sensitively at dispatch time
type Citizen struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Municipality string `json:"municipality"`
}

// NewCitizen normalizes the email and validates invariants.
func NewCitizen(name, addr, municipality string) (Citizen, error) {
	normalized := email.Normalize(addr)
	if normalized == "" {
		return Citizen{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !email.Plausible(normalized) {
		return Citizen{}, dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	municipality = strings.TrimSpace(municipality)
	if municipality == "" {
		return Citizen{}, dErrors.New(dErrors.CodeValidation, "municipality is required")
	}
	return Citizen{Name: strings.TrimSpace(name), Email: normalized, Municipality: municipality}, nil
}
