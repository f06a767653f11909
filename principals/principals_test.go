package principals_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-directory-auth/principals"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    principals.RoleType
		wantErr bool
	}{
		{name: "admin", input: "admin", want: principals.RoleAdmin},
		{name: "owner", input: "owner", want: principals.RoleOwner},
		{name: "developer", input: "developer", want: principals.RoleDeveloper},
		{name: "empty defaults to least privileged", input: "", want: principals.RoleDeveloper},
		{name: "unknown role rejected", input: "superuser", wantErr: true},
		{name: "case sensitive", input: "Admin", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, err := principals.ParseRole(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, role)
		})
	}
}

func TestCredentialHashNeverSerialized(t *testing.T) {
	p := principals.Principal{
		ID:             "p-1",
		LoginKey:       "a@x.com",
		CredentialHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:           principals.RoleOwner,
		Active:         true,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NotContains(t, string(data), "$2a$10$")

	public := p.Public()
	require.Empty(t, public.CredentialHash)
	require.Equal(t, p.LoginKey, public.LoginKey)
}
