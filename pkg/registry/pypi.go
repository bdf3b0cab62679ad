package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/project-causica/causica/pkg/condaenv"
	log "github.com/sirupsen/logrus"
)

const DefaultPyPIURL = "https://pypi.org"

// PyPIClient checks releases against the package index JSON API
type PyPIClient struct {
	baseURL string
	client  *http.Client
}

func NewPyPIClient(baseURL string) *PyPIClient {
	if baseURL == "" {
		baseURL = DefaultPyPIURL
	}
	return &PyPIClient{baseURL: baseURL, client: &http.Client{}}
}

// HasRelease tells if the index knows the exact version of a package
func (c *PyPIClient) HasRelease(ctx context.Context, name, version string) (bool, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, condaenv.NormalizePipName(name))
	log.Debugf("looking up %s==%s at %s", name, version, url)

	var body []byte
	notFound := false
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
			notFound = true
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		body, err = ioutil.ReadAll(resp.Body)
		return err
	}
	backoffStrategy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(operation, backoffStrategy); err != nil {
		return false, err
	}
	if notFound {
		return false, nil
	}

	var payload struct {
		Releases map[string][]interface{} `json:"releases"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, fmt.Errorf("cannot parse index response for %s: %s", name, err)
	}

	_, ok := payload.Releases[version]
	return ok, nil
}
