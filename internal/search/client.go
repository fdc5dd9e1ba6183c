// Package search talks to the remote search API behind the search modal.
// Queries are either free text or an uploaded image; results come back ranked
// by score.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyQuery     = errors.New("search query needs text or an image")
	ErrAmbiguousQuery = errors.New("search query has both text and an image")
)

// Request is a single search. Exactly one of Text or Image must be set.
type Request struct {
	Text  string
	Image []byte
	Limit int
}

// Result is one ranked hit.
type Result struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search api returned %d: %s", e.StatusCode, e.Body)
}

type textQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type response struct {
	Results []Result `json:"results"`
}

// Client issues requests against a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

// NewClient parses baseURL. A nil logger disables logging.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid search url %q: scheme must be http or https", baseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("search"),
	}, nil
}

// Search runs req and returns the results ordered by descending score.
func (c *Client) Search(ctx context.Context, req Request) ([]Result, error) {
	var (
		httpReq *http.Request
		err     error
	)
	switch {
	case req.Text == "" && len(req.Image) == 0:
		return nil, ErrEmptyQuery
	case req.Text != "" && len(req.Image) > 0:
		return nil, ErrAmbiguousQuery
	case req.Text != "":
		httpReq, err = c.textRequest(ctx, req)
	default:
		httpReq, err = c.imageRequest(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Score > out.Results[j].Score
	})
	if req.Limit > 0 && len(out.Results) > req.Limit {
		out.Results = out.Results[:req.Limit]
	}

	c.log.Debug("search done",
		zap.String("path", httpReq.URL.Path),
		zap.Int("results", len(out.Results)),
		zap.Duration("took", time.Since(start)))
	return out.Results, nil
}

func (c *Client) textRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, err := json.Marshal(textQuery{Query: req.Text, Limit: req.Limit})
	if err != nil {
		return nil, err
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("search"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	return r, nil
}

func (c *Client) imageRequest(ctx context.Context, req Request) (*http.Request, error) {
	format, err := SniffImage(req.Image)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "upload."+format)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, err
	}
	if req.Limit > 0 {
		if err := mw.WriteField("limit", strconv.Itoa(req.Limit)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("search/image"), &buf)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}
