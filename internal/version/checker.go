// Package version holds the build version and checks GitHub for newer releases.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time with -ldflags "-X .../internal/version.Version=1.2.3"
var Version = "0.1.0-dev"

const (
	releasesURL  = "https://api.github.com/repos/studiowebux/archibus-connect/releases/latest"
	checkTimeout = 5 * time.Second
)

// UserAgent identifies this client to the gateway and to GitHub
func UserAgent() string {
	return "archibus-connect/" + Version
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Update is the outcome of a release check
type Update struct {
	Current   string
	Latest    string
	URL       string
	Available bool
}

// Checker queries the latest release
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker checks the project's GitHub releases
func NewChecker() *Checker {
	return &Checker{
		URL:    releasesURL,
		Client: &http.Client{Timeout: checkTimeout},
	}
}

// Check reports whether a release newer than current exists
func (c *Checker) Check(ctx context.Context, current string) (Update, error) {
	update := Update{Current: strings.TrimPrefix(current, "v")}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return update, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return update, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return update, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return update, fmt.Errorf("failed to decode response: %w", err)
	}

	update.Latest = strings.TrimPrefix(rel.TagName, "v")
	update.URL = rel.HTMLURL
	update.Available = update.Latest != "" && isNewerVersion(update.Latest, update.Current)
	return update, nil
}

// isNewerVersion compares dotted versions, ignoring pre-release and build suffixes
func isNewerVersion(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	n := max(len(latestParts), len(currentParts))
	for i := 0; i < n; i++ {
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

func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		num, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		result = append(result, num)
	}
	return result
}
