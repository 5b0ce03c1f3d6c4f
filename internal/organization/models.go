package organization

// Credential is one entry in the static organization allow-list. The table
// is immutable for the process lifetime; it is loaded and validated once at
// startup and never mutated.
type Credential struct {
	OrganizationID string
	// DomainSuffix is matched against the lower-cased reporter email with a
	// suffix test, e.g. "@danna1.gov.co".
	DomainSuffix string
	// secretHash is the bcrypt hash of the organization's secret code. The
	// cleartext is discarded at load time.
	secretHash string
}
