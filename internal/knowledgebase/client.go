package knowledgebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

const collectionPath = "/knowledgebase"

type Config struct {
	BaseURL string
	APIKey  string
	// HTTPClient is the base client the bearer transport wraps. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to the knowledge-base REST API. Each operation issues exactly
// one request and returns the response body untouched.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewClient(cfg Config) *Client {
	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    oauth2.NewClient(ctx, src),
		log:     cfg.Logger.WithName("knowledgebase"),
	}
}

// List returns every knowledge base visible to the credential.
func (c *Client) List(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "list", http.MethodGet, collectionPath, nil)
}

// Create registers a new knowledge base.
func (c *Client) Create(ctx context.Context, name, description string) (json.RawMessage, error) {
	body, err := json.Marshal(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{Name: name, Description: description})
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Op: "create", Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.do(ctx, "create", http.MethodPost, collectionPath, body)
}

// Get fetches a single knowledge base by id.
func (c *Client) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, "get", http.MethodGet, collectionPath+"/"+url.PathEscape(id), nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (json.RawMessage, error) {
	payload, gwErr := c.send(ctx, op, method, path, body)
	if gwErr != nil {
		c.log.Debug("upstream request failed", "op", op, "kind", gwErr.Kind.String(), "status", gwErr.StatusCode)
		return nil, gwErr
	}
	return payload, nil
}

func (c *Client) send(ctx context.Context, op, method, path string, body []byte) (json.RawMessage, *Error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("upstream request", "op", op, "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindStatus, Op: op, StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if !gjson.ValidBytes(payload) {
		return nil, &Error{Kind: KindDecode, Op: op, Err: fmt.Errorf("%d byte body is not valid JSON", len(payload))}
	}
	c.log.Debug("upstream response", "op", op, "status", resp.StatusCode, "bytes", len(payload))
	return json.RawMessage(payload), nil
}

// unwrapURLError drops the *url.Error envelope so messages do not repeat the
// method and URL, which already appear in the logs.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
