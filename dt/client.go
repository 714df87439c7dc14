// Package dt is a minimal client for the Dependency-Track API, used to
// push generated SBOMs to a server for continuous monitoring.
package dt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Client provides methods for communicating with a Dependency-Track API server
type Client struct {
	*http.Client

	baseURL *url.URL
	secret  string
}

// NewClient initializes a new Dependency-Track API client
func NewClient(api, secret string) (*Client, error) {
	parsedURL, err := url.Parse(api)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme == "" {
		return nil, errors.New("cannot use relative URL as the Dependency-Track API location")
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URI scheme '%s'", parsedURL.Scheme)
	}
	parsedURL.Fragment = ""
	parsedURL.RawQuery = ""

	return &Client{
		Client:  http.DefaultClient,
		baseURL: parsedURL,
		secret:  secret,
	}, nil
}

// Upload posts a JSON SBOM to a project and returns the processing token.
// The project is auto-created when it does not exist yet.
func (c *Client) Upload(sbom io.Reader, project, version string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"projectName":    project,
		"projectVersion": version,
		"autoCreate":     "true",
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return "", err
		}
	}
	file, err := writer.CreateFormFile("bom", "bom.json")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, sbom); err != nil {
		return "", err
	}
	writer.Close()

	token := &struct {
		Token string
	}{}
	err = c.doRequest(http.MethodPost, "api/v1/bom", writer.FormDataContentType(), body, token)
	return token.Token, err
}

// Version fetches version information from the server
func (c *Client) Version() (string, error) {
	version := &struct {
		Version string
	}{}
	err := c.doRequest(http.MethodGet, "api/version", "", nil, version)
	return version.Version, err
}

// Project represents a project on the Dependency-Track server
type Project struct {
	Name          string
	Version       string
	LastBomImport int64
}

// Lookup returns information about a named project
func (c *Client) Lookup(project, version string) (*Project, error) {
	values := url.Values{
		"name":    []string{project},
		"version": []string{version},
	}
	p := &Project{}
	err := c.doRequest(http.MethodGet, "api/v1/project/lookup?"+values.Encode(), "", nil, p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) doRequest(method, target, contentType string, body io.Reader, out interface{}) error {
	request, err := http.NewRequest(method, c.url(target), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("X-Api-Key", c.secret)

	response, err := c.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	result, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode > 299 {
		return fmt.Errorf("error response from server: %s -- %s", response.Status, string(result))
	}
	return json.Unmarshal(result, out)
}

func (c *Client) url(target string) string {
	result := &url.URL{}
	*result = *c.baseURL
	endpoint, query, _ := strings.Cut(target, "?")
	result.Path = path.Join(result.Path, endpoint)
	result.RawQuery = query

	return result.String()
}
