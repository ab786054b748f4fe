package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() User {
	return User{
		ID:                    "user_2abc",
		PrimaryEmailAddressID: "idn_2",
		EmailAddresses: []EmailAddress{
			{ID: "idn_1", EmailAddress: "old@example.com"},
			{ID: "idn_2", EmailAddress: "ana@example.com"},
		},
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	raw, err := IssueToken("secret", "https://id.example", testUser(), time.Minute)
	require.NoError(t, err)

	u, err := NewVerifier("secret", "https://id.example").Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", u.ID)
	assert.Equal(t, "ana@example.com", u.PrimaryEmail())
}

func TestVerifyRejects(t *testing.T) {
	good, err := IssueToken("secret", "", testUser(), time.Minute)
	require.NoError(t, err)
	expired, err := IssueToken("secret", "", testUser(), -time.Minute)
	require.NoError(t, err)
	noSub, err := IssueToken("secret", "", User{}, time.Minute)
	require.NoError(t, err)

	cases := map[string]struct {
		verifier *Verifier
		raw      string
	}{
		"wrong secret": {NewVerifier("other", ""), good},
		"expired":      {NewVerifier("secret", ""), expired},
		"wrong issuer": {NewVerifier("secret", "https://id.example"), good},
		"no subject":   {NewVerifier("secret", ""), noSub},
		"garbage":      {NewVerifier("secret", ""), "not.a.jwt"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			u, err := tc.verifier.Verify(tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, u)
		})
	}
}

func TestPrimaryEmail(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "", nilUser.PrimaryEmail())

	u := testUser()
	u.PrimaryEmailAddressID = "missing"
	assert.Equal(t, "", u.PrimaryEmail())
}
