// Package model defines the cloud providers cloud9 knows about and their credential shapes.
package model

import (
	"strings"
	"time"
)

// Provider is a cloud vendor key as used by the API's provider query.
type Provider string

const (
	AWS   Provider = "aws"
	GCP   Provider = "gcp"
	Azure Provider = "azure"
)

// Providers lists the supported providers in menu order.
var Providers = []Provider{AWS, Azure, GCP}

// ParseProvider normalizes user input. Unknown values are returned as-is.
func ParseProvider(s string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether p is one of the supported providers.
func (p Provider) Known() bool {
	switch p {
	case AWS, GCP, Azure:
		return true
	}
	return false
}

// DisplayName returns the label used in page headers.
func (p Provider) DisplayName() string {
	switch p {
	case AWS:
		return "AWS Cloud"
	case GCP:
		return "Google Cloud"
	case Azure:
		return "Microsoft Azure"
	}
	return "Unknown Provider"
}

// Field describes one credential input.
type Field struct {
	Key    string
	Label  string
	Secret bool
}

var credentialFields = map[Provider][]Field{
	AWS: {
		{Key: "accessKey", Label: "AWS Access Key"},
		{Key: "secretKey", Label: "AWS Secret Key", Secret: true},
		{Key: "region", Label: "Region"},
	},
	Azure: {
		{Key: "subscriptionId", Label: "Subscription ID"},
		{Key: "tenantId", Label: "Tenant ID"},
		{Key: "clientId", Label: "Client ID"},
		{Key: "clientSecret", Label: "Client Secret", Secret: true},
	},
	GCP: {
		{Key: "projectId", Label: "Project ID"},
		{Key: "keyFile", Label: "Service Account Key File"},
		{Key: "secretKey", Label: "Secret Key", Secret: true},
	},
}

// CredentialFields returns the inputs collected for p, or nil for unknown providers.
func CredentialFields(p Provider) []Field {
	return credentialFields[p]
}

// Credentials is a saved credential profile.
type Credentials struct {
	Provider Provider
	Fields   map[string]string
	SavedAt  time.Time
}

// Masked returns the field values with secrets hidden, keyed by field label,
// in the provider's field order.
func (c Credentials) Masked() [][2]string {
	fields := CredentialFields(c.Provider)
	out := make([][2]string, 0, len(fields))
	for _, f := range fields {
		v := c.Fields[f.Key]
		if f.Secret {
			v = Mask(v)
		}
		out = append(out, [2]string{f.Label, v})
	}
	return out
}

// Mask hides all but the last four characters of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}
