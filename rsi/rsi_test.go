package rsi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citizenPage = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:type" content="website"/>
  <meta property="og:image" content="https://cdn.example.com/avatar.png"/>
  <meta property="og:image:url" content="https://cdn.example.com/fallback.png"/>
</head>
<body>
  <a href="/citizens/RRRthur">RRRthur</a>
  <a href="/orgs/TESTORG">Test Org</a>
  <a href="/orgs/OTHER">Other Org</a>
</body>
</html>`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile(strings.NewReader(citizenPage), DefaultBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/avatar.png", profile.AvatarURL)
	assert.Equal(t, "Test Org", profile.OrganizationName)
	assert.Equal(t, "https://robertsspaceindustries.com/orgs/TESTORG", profile.OrganizationURL)
}

func TestParseProfileWithFallbackImage(t *testing.T) {
	page := `<html><head><meta property="og:image:url" content="https://cdn.example.com/fallback.png"/></head></html>`

	profile, err := ParseProfile(strings.NewReader(page), DefaultBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/fallback.png", profile.AvatarURL)
}

func TestParseProfileWithAbsoluteOrgURL(t *testing.T) {
	page := `<html><body><a href="https://robertsspaceindustries.com/orgs/TESTORG"></a></body></html>`

	profile, err := ParseProfile(strings.NewReader(page), DefaultBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "https://robertsspaceindustries.com/orgs/TESTORG", profile.OrganizationURL)
	assert.Equal(t, "TESTORG", profile.OrganizationName)
}

func TestParseProfileWithNoMetadata(t *testing.T) {
	profile, err := ParseProfile(strings.NewReader("<html><body>private</body></html>"), DefaultBaseURL)
	require.NoError(t, err)

	assert.Equal(t, Profile{}, profile)
}

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/citizens/RRRthur", r.URL.Path)
		w.Write([]byte(citizenPage))
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	profile, err := c.FetchProfile(context.Background(), "RRRthur")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/avatar.png", profile.AvatarURL)
}

func TestFetchProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient()
	c.BaseURL = srv.URL

	_, err := c.FetchProfile(context.Background(), "nobody")
	assert.Error(t, err)
}
