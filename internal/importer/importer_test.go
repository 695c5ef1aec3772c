package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHAR = `{
  "log": {
    "version": "1.2",
    "entries": [
      {
        "request": {
          "method": "get",
          "url": "https://api.example.com/users?page=2",
          "headers": [
            {"name": ":authority", "value": "api.example.com"},
            {"name": "accept", "value": "application/json"},
            {"name": "authorization", "value": "Bearer secret"}
          ]
        }
      },
      {
        "request": {
          "method": "POST",
          "url": "https://api.example.com/users",
          "headers": [],
          "postData": {"mimeType": "application/json", "text": "{\"name\":\"ada\"}"}
        }
      },
      {
        "request": {
          "method": "GET",
          "url": "wss://api.example.com/live",
          "headers": []
        }
      },
      {
        "request": {
          "method": "GET",
          "url": "https://cdn.example.com/logo.png",
          "headers": []
        }
      }
    ]
  }
}`

func TestFromHAR(t *testing.T) {
	reqs, err := FromHAR(strings.NewReader(sampleHAR), HAROptions{})
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "GET /users", reqs[0].Name)
	assert.Equal(t, "GET", reqs[0].Method)
	assert.Equal(t, "https://api.example.com/users?page=2", reqs[0].URL)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, reqs[0].Headers)

	assert.Equal(t, "POST", reqs[1].Method)
	assert.Equal(t, `{"name":"ada"}`, reqs[1].Body)

	assert.Equal(t, "GET /logo.png", reqs[2].Name)
}

func TestFromHAR_Options(t *testing.T) {
	reqs, err := FromHAR(strings.NewReader(sampleHAR), HAROptions{
		Filter:        "api.example.com/users",
		KeepSensitive: true,
	})
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer secret", reqs[0].Headers["Authorization"])
}

func TestFromHAR_Errors(t *testing.T) {
	_, err := FromHAR(strings.NewReader("not json"), HAROptions{})
	assert.Error(t, err)

	_, err = FromHAR(strings.NewReader(`{"log":{"entries":[]}}`), HAROptions{})
	assert.ErrorIs(t, err, ErrNoRequests)
}

func TestFromHTTPFile(t *testing.T) {
	content := `GET https://example.com/health

### Create user
# @filter id
post https://example.com/users
Content-Type: application/json
X-Trace: abc

{
  "name": "ada"
}

### Not a request
just some notes

### List users
GET https://example.com/users
Accept: application/json
`
	reqs, err := FromHTTPFile(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "", reqs[0].Name)
	assert.Equal(t, "GET", reqs[0].Method)
	assert.Equal(t, "https://example.com/health", reqs[0].URL)

	assert.Equal(t, "Create user", reqs[1].Name)
	assert.Equal(t, "POST", reqs[1].Method)
	assert.Equal(t, "id", reqs[1].Filter)
	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"X-Trace":      "abc",
	}, reqs[1].Headers)
	assert.Equal(t, "{\n  \"name\": \"ada\"\n}", reqs[1].Body)

	assert.Equal(t, "List users", reqs[2].Name)
	assert.Equal(t, "application/json", reqs[2].Headers["Accept"])
	assert.Empty(t, reqs[2].Body)
}

func TestFromHTTPFile_Empty(t *testing.T) {
	_, err := FromHTTPFile(strings.NewReader("# only a comment\n"))
	assert.ErrorIs(t, err, ErrNoRequests)
}

func TestExtractPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "/"},
		{"https://example.com/a/b?x=1", "/a/b"},
		{"https://example.com/a#frag", "/a"},
		{"example.com/a", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPath(tt.url))
		})
	}
}
