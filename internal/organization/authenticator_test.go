package organization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devTable(t *testing.T) map[string]Credential {
	t.Helper()
	table, err := LoadCredentials("")
	require.NoError(t, err)
	return table
}

func TestAuthenticateGateMatrix(t *testing.T) {
	auth := NewAuthenticator(devTable(t))

	cases := []struct {
		name string
		org  string
		mail string
		code string
		want bool
	}{
		{"valid credentials", "Danna1", "reporter@danna1.gov.co", "1Danna", true},
		{"email case is irrelevant", "Danna1", "Reporter@DANNA1.GOV.CO", "1Danna", true},
		{"wrong code", "Danna1", "reporter@danna1.gov.co", "wrong", false},
		{"code case matters", "Danna1", "reporter@danna1.gov.co", "1danna", false},
		{"domain outside allow-list", "Danna1", "reporter@evil.example.com", "1Danna", false},
		{"unknown organization", "Nadie", "reporter@danna1.gov.co", "whatever", false},
		{"both checks wrong", "Danna1", "reporter@evil.example.com", "wrong", false},
		{"empty everything", "", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.Authenticate(tc.org, tc.mail, tc.code))
		})
	}
}

// The default policy accepts any allow-listed domain alongside the claimed
// organization's code; strict mode ties both to the same organization.
func TestCrossOrganizationDomainPolicy(t *testing.T) {
	table := devTable(t)

	t.Run("default accepts another organization's domain", func(t *testing.T) {
		auth := NewAuthenticator(table)
		assert.True(t, auth.Authenticate("Danna1", "reporter@tein3.gov.co", "1Danna"))
	})

	t.Run("strict mode rejects another organization's domain", func(t *testing.T) {
		auth := NewAuthenticator(table, WithStrictDomainMatch())
		assert.False(t, auth.Authenticate("Danna1", "reporter@tein3.gov.co", "1Danna"))
		assert.True(t, auth.Authenticate("Danna1", "reporter@danna1.gov.co", "1Danna"))
	})
}

func TestPredicatesInIsolation(t *testing.T) {
	auth := NewAuthenticator(devTable(t))

	assert.True(t, auth.DomainAllowed("someone@cbu4.gov.co"))
	assert.False(t, auth.DomainAllowed("someone@cbu4.gov.co.evil.com"))
	assert.False(t, auth.DomainAllowed(""))

	assert.True(t, auth.CodeMatches("CBU4", "uniandes"))
	assert.False(t, auth.CodeMatches("CBU4", "UNIANDES"))
	assert.False(t, auth.CodeMatches("missing", "uniandes"))
}

func TestBuildTableValidation(t *testing.T) {
	cases := []struct {
		name    string
		entries []credentialEntry
	}{
		{"missing organization id", []credentialEntry{{DomainSuffix: "@a.gov.co", SecretCode: "x"}}},
		{"missing domain suffix", []credentialEntry{{OrganizationID: "A", SecretCode: "x"}}},
		{"suffix without @", []credentialEntry{{OrganizationID: "A", DomainSuffix: "a.gov.co", SecretCode: "x"}}},
		{"missing secret code", []credentialEntry{{OrganizationID: "A", DomainSuffix: "@a.gov.co"}}},
		{"duplicate organization", []credentialEntry{
			{OrganizationID: "A", DomainSuffix: "@a.gov.co", SecretCode: "x"},
			{OrganizationID: "A", DomainSuffix: "@b.gov.co", SecretCode: "y"},
		}},
		{"empty table", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildTable(tc.entries)
			require.Error(t, err)
		})
	}
}

func TestBuildTableNormalizesSuffix(t *testing.T) {
	table, err := buildTable([]credentialEntry{
		{OrganizationID: "A", DomainSuffix: "@A.GOV.CO", SecretCode: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "@a.gov.co", table["A"].DomainSuffix)

	auth := NewAuthenticator(table)
	assert.True(t, auth.Authenticate("A", "me@a.gov.co", "x"))
}
