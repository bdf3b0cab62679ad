package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const DefaultCondaURL = "https://conda.anaconda.org"

var DefaultSubdirs = []string{"linux-64", "noarch"}

// CondaClient looks packages up in anaconda.org compatible channels.
// Repodata is fetched once per channel and subdir and kept for the
// lifetime of the client.
type CondaClient struct {
	baseURL string
	subdirs []string
	client  *http.Client

	mu       sync.Mutex
	repodata map[string]*repodata
}

type repodata struct {
	Packages      map[string]packageRecord `json:"packages"`
	CondaPackages map[string]packageRecord `json:"packages.conda"`
}

type packageRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func NewCondaClient(baseURL string, subdirs []string) *CondaClient {
	if baseURL == "" {
		baseURL = DefaultCondaURL
	}
	if len(subdirs) == 0 {
		subdirs = DefaultSubdirs
	}
	return &CondaClient{
		baseURL:  baseURL,
		subdirs:  subdirs,
		client:   &http.Client{},
		repodata: map[string]*repodata{},
	}
}

// Versions lists the available versions of a package in a channel,
// across the configured subdirs
func (c *CondaClient) Versions(ctx context.Context, channel, name string) ([]string, error) {
	var versions []string
	seen := map[string]bool{}

	for _, subdir := range c.subdirs {
		data, err := c.channelRepodata(ctx, channel, subdir)
		if err != nil {
			return nil, err
		}
		for _, record := range data.Packages {
			if record.Name == name && !seen[record.Version] {
				seen[record.Version] = true
				versions = append(versions, record.Version)
			}
		}
		for _, record := range data.CondaPackages {
			if record.Name == name && !seen[record.Version] {
				seen[record.Version] = true
				versions = append(versions, record.Version)
			}
		}
	}
	return versions, nil
}

func (c *CondaClient) channelRepodata(ctx context.Context, channel, subdir string) (*repodata, error) {
	key := channel + "/" + subdir

	c.mu.Lock()
	cached, ok := c.repodata[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/%s/%s/repodata.json", c.baseURL, channel, subdir)
	log.Debugf("fetching repodata from %s", url)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(fmt.Errorf("channel %s has no %s repodata", channel, subdir))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		body, err = ioutil.ReadAll(resp.Body)
		return err
	}
	backoffStrategy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(operation, backoffStrategy); err != nil {
		return nil, err
	}

	data := &repodata{}
	if err := json.Unmarshal(body, data); err != nil {
		return nil, fmt.Errorf("cannot parse repodata of %s/%s: %s", channel, subdir, err)
	}

	c.mu.Lock()
	c.repodata[key] = data
	c.mu.Unlock()
	return data, nil
}
