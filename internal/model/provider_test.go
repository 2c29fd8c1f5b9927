package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "AWS Cloud", AWS.DisplayName())
	assert.Equal(t, "Google Cloud", GCP.DisplayName())
	assert.Equal(t, "Microsoft Azure", Azure.DisplayName())
	assert.Equal(t, "Unknown Provider", Provider("oracle").DisplayName())
	assert.Equal(t, "Unknown Provider", Provider("").DisplayName())
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, AWS, ParseProvider(" AWS "))
	assert.True(t, ParseProvider("Azure").Known())
	assert.False(t, ParseProvider("ibm").Known())
}

func TestCredentialFields(t *testing.T) {
	for _, p := range Providers {
		fields := CredentialFields(p)
		assert.NotEmpty(t, fields, p)

		secrets := 0
		for _, f := range fields {
			if f.Secret {
				secrets++
			}
		}
		assert.Equal(t, 1, secrets, p)
	}
	assert.Nil(t, CredentialFields("oracle"))
	assert.Len(t, CredentialFields(Azure), 4)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "********WXYZ", Mask("ABCDEFGHWXYZ"))
}

func TestMasked(t *testing.T) {
	c := Credentials{
		Provider: AWS,
		Fields:   map[string]string{"accessKey": "AKIA123", "secretKey": "supersecretvalue", "region": "us-east-1"},
		SavedAt:  time.Now(),
	}
	assert.Equal(t, [][2]string{
		{"AWS Access Key", "AKIA123"},
		{"AWS Secret Key", "********alue"},
		{"Region", "us-east-1"},
	}, c.Masked())
}
