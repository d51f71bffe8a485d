package drives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDriveLetter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"z", "Z:"},
		{"Z:", "Z:"},
		{" q ", "Q:"},
		{"q:", "Q:"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDriveLetter(tt.in))
	}
}

func TestValidateMapping(t *testing.T) {
	tests := []struct {
		name     string
		mapping  Mapping
		existing []string
		wantErr  string
	}{
		{
			name:    "valid",
			mapping: Mapping{Drive: "z", UNCPath: `\\server\share`},
		},
		{
			name:    "missing letter",
			mapping: Mapping{UNCPath: `\\server\share`},
			wantErr: "drive letter",
		},
		{
			name:     "duplicate letter case-insensitive",
			mapping:  Mapping{Drive: "z:", UNCPath: `\\server\share`},
			existing: []string{"Z:"},
			wantErr:  "already in use",
		},
		{
			name:    "not a UNC path",
			mapping: Mapping{Drive: "Z:", UNCPath: `C:\local`},
			wantErr: "UNC path",
		},
		{
			name:    "missing share segment",
			mapping: Mapping{Drive: "Z:", UNCPath: `\\server`},
			wantErr: "UNC path",
		},
		{
			name:    "credentials require username",
			mapping: Mapping{Drive: "Z:", UNCPath: `\\server\share`, UseCredentials: true, Password: "pw"},
			wantErr: "username and password",
		},
		{
			name:    "credentials require password",
			mapping: Mapping{Drive: "Z:", UNCPath: `\\server\share`, UseCredentials: true, Username: "alice"},
			wantErr: "username and password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapping(&tt.mapping, tt.existing)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateMapping_Normalizes(t *testing.T) {
	m := Mapping{Drive: " z ", UNCPath: ` \\server\share `}
	require.NoError(t, ValidateMapping(&m, nil))
	assert.Equal(t, "Z:", m.Drive)
	assert.Equal(t, `\\server\share`, m.UNCPath)
}

func TestValidateMapping_ClearsUnusedCredentials(t *testing.T) {
	m := Mapping{Drive: "Z:", UNCPath: `\\server\share`, Username: "stale", Password: "stale"}
	require.NoError(t, ValidateMapping(&m, nil))
	assert.Empty(t, m.Username)
	assert.Empty(t, m.Password)
}
