package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// ErrInvalidPayload wraps responses that are not a JSON array of {id, text}.
var ErrInvalidPayload = errors.New("catalog: invalid answers payload")

const maxPayloadBytes = 1 << 20

// Client fetches answer options from the answers endpoint.
type Client struct {
	baseURL    string
	routePath  string
	httpClient *http.Client
	schema     *openapi3.Schema
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client (http.DefaultClient otherwise).
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClientRoutePath overrides the route prefix (default /surveys/questions/).
func WithClientRoutePath(path string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.routePath = path
		}
	}
}

// NewClient builds a client for the server at baseURL (scheme and host, an
// optional path prefix is kept).
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		routePath:  defaultRoutePath,
		httpClient: http.DefaultClient,
		schema:     AnswerListSchema(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Answers fetches the answers of questionID in server order.
func (c *Client) Answers(ctx context.Context, questionID string) ([]model.Answer, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, errors.New("catalog: question id is required")
	}

	endpoint := c.baseURL + answersPath(c.routePath, url.PathEscape(questionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, StatusError{Code: res.StatusCode, Err: fmt.Errorf("catalog: fetch %s: %s", endpoint, res.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", endpoint, err)
	}
	return c.decode(body)
}

func (c *Client) decode(body []byte) ([]model.Answer, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := c.schema.VisitJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var answers []model.Answer
	if err := json.Unmarshal(body, &answers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	return answers, nil
}
