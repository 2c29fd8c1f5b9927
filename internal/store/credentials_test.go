package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cloud9/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultPath(filepath.Join(t.TempDir(), "nested")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadCredentials(t *testing.T) {
	s := openTemp(t)
	saved := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveCredentials(model.Credentials{
		Provider: model.AWS,
		Fields:   map[string]string{"accessKey": "AKIA1", "secretKey": "s3cr3t", "region": "eu-west-1"},
		SavedAt:  saved,
	}))

	got, ok, err := s.LoadCredentials(model.AWS)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.AWS, got.Provider)
	assert.Equal(t, "eu-west-1", got.Fields["region"])
	assert.True(t, saved.Equal(got.SavedAt))
}

func TestSaveReplacesProfile(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveCredentials(model.Credentials{Provider: model.GCP, Fields: map[string]string{"projectId": "old"}}))
	require.NoError(t, s.SaveCredentials(model.Credentials{Provider: model.GCP, Fields: map[string]string{"projectId": "new"}}))

	got, ok, err := s.LoadCredentials(model.GCP)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"projectId": "new"}, got.Fields)
	assert.False(t, got.SavedAt.IsZero())
}

func TestLoadMissing(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.LoadCredentials(model.Azure)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProvidersAndDelete(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SaveCredentials(model.Credentials{Provider: model.GCP}))
	require.NoError(t, s.SaveCredentials(model.Credentials{Provider: model.AWS}))

	got, err := s.Providers()
	require.NoError(t, err)
	assert.Equal(t, []model.Provider{model.AWS, model.GCP}, got)

	require.NoError(t, s.DeleteCredentials(model.AWS))
	got, err = s.Providers()
	require.NoError(t, err)
	assert.Equal(t, []model.Provider{model.GCP}, got)
}

func TestSaveRequiresProvider(t *testing.T) {
	s := openTemp(t)
	assert.Error(t, s.SaveCredentials(model.Credentials{}))
}
