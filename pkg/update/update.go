// Package update checks GitHub for a newer release of the demo
// application.
package update

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/mod/semver"
)

const latestURL = "https://api.github.com/repos/openchips/legend/releases/latest"

type Release struct {
	HTMLURL     string    `json:"html_url"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
}

func GetLatest() (*Release, error) {
	latest := new(Release)
	b, err := httpGetBody(latestURL)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, latest); err != nil {
		return nil, err
	}
	return latest, nil
}

func httpGetBody(url string) ([]byte, error) {
	return retry.DoWithData(
		func() ([]byte, error) {
			resp, err := http.Get(url)
			if resp != nil && resp.Body != nil {
				defer resp.Body.Close()
			}
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status %s", resp.Status)
			}
			return io.ReadAll(resp.Body)
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
}

// IsLatest reports whether version is current, along with the latest
// published tag. Network failures count as up to date so an offline
// start stays quiet.
func IsLatest(version string) (bool, string) {
	latest, err := GetLatest()
	if err != nil {
		return true, version
	}
	return semver.Compare(latest.TagName, version) <= 0, latest.TagName
}
