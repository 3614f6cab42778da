package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/metrics"
	"github.com/leanttro/leanttrotech/models"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerName = "directus"

// StatusError is a non-2xx answer from the CMS.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Code, e.Body)
}

// File is an upload read fully into memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

type rawResponse struct {
	status int
	body   []byte
}

// CMSClient talks to the Directus REST API. Every method returns a Result;
// failures are logged here and never retried.
type CMSClient struct {
	baseURL string
	token   string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[*rawResponse]
}

// NewCMSClient builds a client for baseURL. A zero timeout leaves the
// transport default in place.
func NewCMSClient(baseURL, token string, timeout time.Duration) *CMSClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("CMS circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CMSClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
	}
}

// BaseURL is the CMS root without a trailing slash.
func (c *CMSClient) BaseURL() string {
	return c.baseURL
}

// Items lists a collection. The raw {"data": [...]} envelope is returned.
func (c *CMSClient) Items(ctx context.Context, collection string, q Query) Result[[]byte] {
	resp, err := c.do(ctx, http.MethodGet, collection, "/items/"+collection, q.Values(), "", nil)
	return c.readResult(http.MethodGet, collection, resp, err, false)
}

// Item fetches one record by id. A 404 is reported as Empty.
func (c *CMSClient) Item(ctx context.Context, collection, id string, q Query) Result[[]byte] {
	path := "/items/" + collection + "/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodGet, collection, path, q.Values(), "", nil)
	return c.readResult(http.MethodGet, collection, resp, err, true)
}

// Create inserts a record and returns its id.
func (c *CMSClient) Create(ctx context.Context, collection string, payload map[string]any) Result[string] {
	body, err := json.Marshal(payload)
	if err != nil {
		return Failed[string](fmt.Errorf("encode payload: %w", err))
	}
	resp, err := c.do(ctx, http.MethodPost, collection, "/items/"+collection, nil, "application/json", body)
	return c.writeResult(http.MethodPost, collection, resp, err, "")
}

// Update applies a partial update to the record id.
func (c *CMSClient) Update(ctx context.Context, collection, id string, payload map[string]any) Result[string] {
	body, err := json.Marshal(payload)
	if err != nil {
		return Failed[string](fmt.Errorf("encode payload: %w", err))
	}
	path := "/items/" + collection + "/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodPatch, collection, path, nil, "application/json", body)
	return c.writeResult(http.MethodPatch, collection, resp, err, id)
}

// Delete removes the record id.
func (c *CMSClient) Delete(ctx context.Context, collection, id string) Result[string] {
	path := "/items/" + collection + "/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodDelete, collection, path, nil, "", nil)
	return c.writeResult(http.MethodDelete, collection, resp, err, id)
}

// Upload stores f through /files and returns the new file id.
func (c *CMSClient) Upload(ctx context.Context, f File) Result[string] {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return Failed[string](fmt.Errorf("create multipart part: %w", err))
	}
	if _, err := part.Write(f.Data); err != nil {
		return Failed[string](fmt.Errorf("write multipart part: %w", err))
	}
	if err := mw.Close(); err != nil {
		return Failed[string](fmt.Errorf("close multipart writer: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, "files", "/files", nil, mw.FormDataContentType(), buf.Bytes())
	return c.writeResult(http.MethodPost, "files", resp, err, "")
}

func (c *CMSClient) do(ctx context.Context, method, collection, path string, query url.Values, contentType string, body []byte) (*rawResponse, error) {
	start := time.Now()
	resp, err := c.cb.Execute(func() (*rawResponse, error) {
		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")

		httpResp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http do: %w", err)
		}
		defer httpResp.Body.Close()

		respBytes, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		raw := &rawResponse{status: httpResp.StatusCode, body: respBytes}
		// 5xx counts against the breaker; 4xx is an answer, not an outage.
		if httpResp.StatusCode >= 500 {
			return raw, &StatusError{Code: httpResp.StatusCode, Body: string(respBytes)}
		}
		return raw, nil
	})

	outcome := StatusOK
	switch {
	case err != nil:
		outcome = StatusFailed
	case resp.status == http.StatusNotFound:
		outcome = StatusEmpty
	case resp.status < 200 || resp.status >= 300:
		outcome = StatusFailed
	}
	metrics.RecordCMSRequest(method, collection, outcome.String(), time.Since(start))

	return resp, err
}

func (c *CMSClient) readResult(method, collection string, resp *rawResponse, err error, notFoundIsEmpty bool) Result[[]byte] {
	if err != nil {
		return c.fail(method, collection, err)
	}
	if resp.status == http.StatusNotFound && notFoundIsEmpty {
		return Empty[[]byte]()
	}
	if resp.status < 200 || resp.status >= 300 {
		return c.fail(method, collection, &StatusError{Code: resp.status, Body: string(resp.body)})
	}
	return OK(resp.body)
}

func (c *CMSClient) writeResult(method, collection string, resp *rawResponse, err error, knownID string) Result[string] {
	if err != nil {
		return Failed[string](c.fail(method, collection, err).Err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return Failed[string](c.fail(method, collection, &StatusError{Code: resp.status, Body: string(resp.body)}).Err)
	}
	if knownID != "" || len(resp.body) == 0 {
		return OK(knownID)
	}

	var env struct {
		Data struct {
			ID models.ID `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return Failed[string](c.fail(method, collection, apperrors.Wrap(apperrors.ErrUpstreamDecode, err)).Err)
	}
	return OK(string(env.Data.ID))
}

func (c *CMSClient) fail(method, collection string, err error) Result[[]byte] {
	if !errors.Is(err, apperrors.ErrUpstreamDecode) {
		err = apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	zap.L().Error("CMS request failed",
		zap.String("method", method),
		zap.String("collection", collection),
		zap.Error(err),
	)
	return Failed[[]byte](err)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
