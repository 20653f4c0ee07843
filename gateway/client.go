// Package gateway is the HTTP client for the SmartStylist backend. The
// backend is an opaque request/response boundary: it analyzes images,
// persists the wardrobe, generates outfits and looks up weather.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"smartstylist/models"
)

// DescriptionMaxLen caps the description sent with an analyze call.
const DescriptionMaxLen = 50

// Provider is the gateway surface the core depends on. Tests swap it for
// a mock, the TUI binary wires the real HTTP client.
type Provider interface {
	Health(ctx context.Context) (*models.HealthResponse, error)
	Analyze(ctx context.Context, image []byte, fileName string, description string, userID string) (*models.AnalyzeResponse, error)
	ListWardrobe(ctx context.Context, userID string) (*models.WardrobeListResponse, error)
	GetItem(ctx context.Context, itemID string) (*models.WardrobeItemResponse, error)
	Generate(ctx context.Context, req models.GenerateRequestIn) (*models.GenerateResponse, error)
	Weather(ctx context.Context, city string) (*models.WeatherResponse, error)
}

// TransportError means the gateway was unreachable or the HTTP exchange
// itself failed before any body could be interpreted.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a body was received but could not be parsed as the
// expected structure. It keeps the raw body so the failure can be
// distinguished from a transport failure and inspected.
type DecodeError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gateway %s: unparseable response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError means the gateway answered with status != "success".
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway %s: request failed (HTTP %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

// Client talks to the backend over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// do runs the request and captures the raw body. Interpreting the body is
// the caller's second stage, so parse failures stay distinguishable from
// transport failures.
func (c *Client) do(op string, req *http.Request) (int, []byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, Err: err}
	}
	return resp.StatusCode, body, nil
}

// decode is the second stage: parse the captured body, then check the
// application-level status discriminator.
func decode[T any](op string, httpStatus int, body []byte, appStatus func(*T) (string, string)) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Op: op, Body: body, Err: err}
	}
	status, message := appStatus(&out)
	if status != models.StatusSuccess {
		return &out, &APIError{Op: op, Status: httpStatus, Message: message}
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return nil, &TransportError{Op: "health", Err: err}
	}
	httpStatus, body, err := c.do("health", req)
	if err != nil {
		return nil, err
	}
	// Availability is 2xx plus a parseable JSON body; the health endpoint
	// reports "ok" rather than the usual "success" discriminator.
	var out models.HealthResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Op: "health", Body: body, Err: err}
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return &out, &APIError{Op: "health", Status: httpStatus}
	}
	return &out, nil
}

func (c *Client) Analyze(ctx context.Context, image []byte, fileName string, description string, userID string) (*models.AnalyzeResponse, error) {
	if runes := []rune(description); len(runes) > DescriptionMaxLen {
		description = string(runes[:DescriptionMaxLen])
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return nil, &TransportError{Op: "analyze", Err: err}
	}
	if _, err := part.Write(image); err != nil {
		return nil, &TransportError{Op: "analyze", Err: err}
	}
	_ = writer.WriteField("description", description)
	_ = writer.WriteField("user_id", userID)
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Op: "analyze", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", &buf)
	if err != nil {
		return nil, &TransportError{Op: "analyze", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpStatus, body, err := c.do("analyze", req)
	if err != nil {
		return nil, err
	}
	return decode[models.AnalyzeResponse]("analyze", httpStatus, body, func(r *models.AnalyzeResponse) (string, string) {
		return r.Status, r.Error
	})
}

func (c *Client) ListWardrobe(ctx context.Context, userID string) (*models.WardrobeListResponse, error) {
	query := url.Values{}
	query.Set("user_id", userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wardrobe?"+query.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Op: "wardrobe", Err: err}
	}
	httpStatus, body, err := c.do("wardrobe", req)
	if err != nil {
		return nil, err
	}
	return decode[models.WardrobeListResponse]("wardrobe", httpStatus, body, func(r *models.WardrobeListResponse) (string, string) {
		return r.Status, r.Error
	})
}

func (c *Client) GetItem(ctx context.Context, itemID string) (*models.WardrobeItemResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wardrobe/"+url.PathEscape(itemID), nil)
	if err != nil {
		return nil, &TransportError{Op: "wardrobe item", Err: err}
	}
	httpStatus, body, err := c.do("wardrobe item", req)
	if err != nil {
		return nil, err
	}
	return decode[models.WardrobeItemResponse]("wardrobe item", httpStatus, body, func(r *models.WardrobeItemResponse) (string, string) {
		return r.Status, r.Error
	})
}

func (c *Client) Generate(ctx context.Context, in models.GenerateRequestIn) (*models.GenerateResponse, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, &TransportError{Op: "generate", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "generate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	httpStatus, body, err := c.do("generate", req)
	if err != nil {
		return nil, err
	}
	return decode[models.GenerateResponse]("generate", httpStatus, body, func(r *models.GenerateResponse) (string, string) {
		return r.Status, r.Error
	})
}

func (c *Client) Weather(ctx context.Context, city string) (*models.WeatherResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/weather/"+url.PathEscape(city), nil)
	if err != nil {
		return nil, &TransportError{Op: "weather", Err: err}
	}
	httpStatus, body, err := c.do("weather", req)
	if err != nil {
		return nil, err
	}
	return decode[models.WeatherResponse]("weather", httpStatus, body, func(r *models.WeatherResponse) (string, string) {
		return r.Status, r.Error
	})
}
