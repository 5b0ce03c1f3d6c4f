package organization

import (
	"strings"

	"aqualert/pkg/email"
	"aqualert/pkg/secrets"
)

// Authenticator is a stateless policy evaluator over the static credential
// table. It performs no I/O and has no failure mode beyond returning false.
//
// Two independent checks must both pass:
//
//	(a) the lower-cased claimed email must end with an allow-listed
//	    domain suffix
//	(b) the secret code registered for the claimed organization id
//	    must match
//
// By default the domain check accepts membership in *any* allow-listed
// domain, not necessarily the claimed organization's own. That mirrors the
// policy this service launched with; WithStrictDomainMatch ties the matched
// domain to the claimed organization instead. See DESIGN.md for the
// trade-off.
type Authenticator struct {
	table  map[string]Credential
	strict bool
}

type AuthenticatorOption func(*Authenticator)

// WithStrictDomainMatch requires the claimed email's domain to belong to the
// same organization whose code is being checked.
func WithStrictDomainMatch() AuthenticatorOption {
	return func(a *Authenticator) { a.strict = true }
}

// NewAuthenticator wraps a validated credential table.
func NewAuthenticator(table map[string]Credential, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{table: table}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate reports whether the claimed identity passes both checks.
func (a *Authenticator) Authenticate(organizationID, claimedEmail, claimedCode string) bool {
	if a.strict {
		cred, ok := a.table[organizationID]
		return ok &&
			strings.HasSuffix(email.Normalize(claimedEmail), cred.DomainSuffix) &&
			secrets.Verify(claimedCode, cred.secretHash) == nil
	}
	return a.DomainAllowed(claimedEmail) && a.CodeMatches(organizationID, claimedCode)
}

// DomainAllowed reports whether the claimed email ends with any allow-listed
// domain suffix. Split out so it can be unit-tested in isolation.
func (a *Authenticator) DomainAllowed(claimedEmail string) bool {
	normalized := email.Normalize(claimedEmail)
	for _, cred := range a.table {
		if strings.HasSuffix(normalized, cred.DomainSuffix) {
			return true
		}
	}
	return false
}

// CodeMatches reports whether the secret code registered for the claimed
// organization matches exactly.
func (a *Authenticator) CodeMatches(organizationID, claimedCode string) bool {
	cred, ok := a.table[organizationID]
	if !ok {
		return false
	}
	return secrets.Verify(claimedCode, cred.secretHash) == nil
}
