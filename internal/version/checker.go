package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// ReleasesURL is the endpoint describing the latest published release
const ReleasesURL = "https://api.github.com/repos/talis-fb/RequestTUI/releases/latest"

// Client executes requests
type Client interface {
	Execute(ctx context.Context, req types.HttpRequest) types.Response
}

// Release describes a published release
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Version returns the tag without a leading "v"
func (r Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// Checker looks up the latest release through the request executor
type Checker struct {
	client Client
	url    string
}

// NewChecker creates a checker querying url
func NewChecker(client Client, url string) *Checker {
	return &Checker{client: client, url: url}
}

// Check fetches the latest release and reports whether it is newer than
// current
func (c *Checker) Check(ctx context.Context, current string) (Release, bool, error) {
	resp := c.client.Execute(ctx, types.HttpRequest{
		Method:  "GET",
		URL:     c.url,
		Headers: map[string]string{"User-Agent": "requesttui/" + current, "Accept": "application/json"},
	})
	if resp.IsInternalError() {
		return Release{}, false, fmt.Errorf("failed to fetch latest release: %s", resp.Body)
	}
	if resp.Status != 200 {
		return Release{}, false, fmt.Errorf("unexpected status code: %d", resp.Status)
	}

	var release Release
	if err := json.Unmarshal([]byte(resp.Body), &release); err != nil {
		return Release{}, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if release.TagName == "" {
		return Release{}, false, errors.New("release has no tag")
	}

	return release, isNewerVersion(release.Version(), strings.TrimPrefix(current, "v")), nil
}

// isNewerVersion compares two semantic versions and returns true if latest > current
// Supports versions like "0.0.28", "1.2.3", "0.0.29-dev", etc.
func isNewerVersion(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	n := max(len(latestParts), len(currentParts))
	for i := range n {
		l, c := part(latestParts, i), part(currentParts, i)
		if l != c {
			return l > c
		}
	}
	return false
}

func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// parseVersion parses a version string into integer parts.
// Pre-release and build metadata (after "-" or "+") are ignored.
func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		if num, err := strconv.Atoi(p); err == nil {
			result = append(result, num)
		}
	}
	return result
}
