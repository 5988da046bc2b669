// Package github posts review comments on pull requests.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jengzang/contour-backend/internal/models"
)

// ErrRequest reports a GitHub API call that could not be completed.
var ErrRequest = errors.New("github request failed")

// Client talks to the GitHub REST API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient creates a client for the API at baseURL. A nil httpClient
// uses http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *Client) issueURL(ci models.CIData) string {
	return fmt.Sprintf("%s/repos/%s/issues/%d", c.baseURL, ci.TravisRepoSlug, ci.TravisPullRequest)
}

// Comment writes the review comment for ci on its pull request. GitHub's
// status code and JSON reply are returned as they are, whatever the
// status.
func (c *Client) Comment(ctx context.Context, ci models.CIData) (*models.CommentResult, error) {
	var body string
	var err error
	if IsStaticman(ci) {
		var pr struct {
			Body string `json:"body"`
		}
		var status int
		status, err = c.do(ctx, http.MethodGet, c.issueURL(ci), nil, &pr)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("%w: pull request lookup returned %d", ErrRequest, status)
		}
		body, err = StaticmanComment(ci, pr.Body)
	} else {
		body, err = GeneralComment(ci)
	}
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return nil, fmt.Errorf("failed to encode comment: %w", err)
	}

	var reply interface{}
	status, err := c.do(ctx, http.MethodPost, c.issueURL(ci)+"/comments", payload, &reply)
	if err != nil {
		return nil, err
	}

	return &models.CommentResult{StatusCode: status, JSON: reply}, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrRequest, method, url, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return resp.StatusCode, fmt.Errorf("%w: failed to decode %s reply: %v", ErrRequest, url, err)
	}
	return resp.StatusCode, nil
}
