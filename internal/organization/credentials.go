package organization

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/secrets"
)

// credentialEntry is the on-disk shape of one allow-list entry.
type credentialEntry struct {
	OrganizationID string `json:"organization_id"`
	DomainSuffix   string `json:"domain_suffix"`
	SecretCode     string `json:"secret_code"`
}

// devCredentials is the development fixture: the five partner organizations
// this deployment launched with. Production points AQUALERT_CREDENTIALS at a
// JSON file instead.
var devCredentials = []credentialEntry{
	{OrganizationID: "Danna1", DomainSuffix: "@danna1.gov.co", SecretCode: "1Danna"},
	{OrganizationID: "Loewens2", DomainSuffix: "@loewens2.gov.co", SecretCode: "loewenstein"},
	{OrganizationID: "Tein3", DomainSuffix: "@tein3.gov.co", SecretCode: "Millan"},
	{OrganizationID: "CBU4", DomainSuffix: "@cbu4.gov.co", SecretCode: "uniandes"},
	{OrganizationID: "ResolviendoRetos", DomainSuffix: "@resolviendoretos.com.co", SecretCode: "ProyectoFinal"},
}

// LoadCredentials reads the credential table from path, or the built-in
// development fixture when path is empty. Every entry must carry an
// organization id, a domain suffix, and a secret code; a bad table is a
// startup failure, not a runtime one.
func LoadCredentials(path string) (map[string]Credential, error) {
	entries := devCredentials
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		entries = nil
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
	}
	return buildTable(entries)
}

func buildTable(entries []credentialEntry) (map[string]Credential, error) {
	table := make(map[string]Credential, len(entries))
	for _, e := range entries {
		if e.OrganizationID == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "credential entry missing organization_id")
		}
		if e.DomainSuffix == "" || !strings.HasPrefix(e.DomainSuffix, "@") {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"organization %q needs a domain suffix starting with '@'", e.OrganizationID)
		}
		if e.SecretCode == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"organization %q is missing a secret code", e.OrganizationID)
		}
		if _, dup := table[e.OrganizationID]; dup {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"duplicate credential entry for organization %q", e.OrganizationID)
		}

		hash, err := secrets.Hash(e.SecretCode)
		if err != nil {
			return nil, fmt.Errorf("hash secret for organization %q: %w", e.OrganizationID, err)
		}
		table[e.OrganizationID] = Credential{
			OrganizationID: e.OrganizationID,
			DomainSuffix:   strings.ToLower(e.DomainSuffix),
			secretHash:     hash,
		}
	}
	if len(table) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "credential table is empty")
	}
	return table, nil
}
