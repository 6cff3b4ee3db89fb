// Package genai is a thin HTTP facade over the Gemini generateContent and
// Veo long-running video APIs. It deals in raw request/response shapes only;
// translating domain requests into prompts and parts is the gateway's job.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.5-flash"
	defaultProModel   = "gemini-2.5-pro"
	defaultVideoModel = "veo-3.1-fast-generate-preview"
)

// ErrNoImage is returned when a generate call succeeds at the HTTP level but
// carries no inline image payload.
var ErrNoImage = errors.New("no image in response")

// ErrInvalidJSON is returned when a structured call does not yield JSON
// matching the requested schema.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// Options controls how the client is configured. Zero values fall back to
// production defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	ProModel   string
	VideoModel string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	textModel  string
	proModel   string
	videoModel string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a Gemini client with sane defaults. Callers may pass a
// nil HTTP client; a reusable one with a generous timeout is created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("genai: api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    strings.TrimRight(firstNonEmpty(opts.BaseURL, defaultBaseURL), "/"),
		imageModel: firstNonEmpty(opts.ImageModel, defaultImageModel),
		textModel:  firstNonEmpty(opts.TextModel, defaultTextModel),
		proModel:   firstNonEmpty(opts.ProModel, defaultProModel),
		videoModel: firstNonEmpty(opts.VideoModel, defaultVideoModel),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// TextModel returns the configured standard text model identifier.
func (c *Client) TextModel() string { return c.textModel }

// ProModel returns the configured advanced text model identifier.
func (c *Client) ProModel() string { return c.proModel }

// Part is one content part of a generate request: either text or inline
// binary data with its media type.
type Part struct {
	Text     string
	Data     []byte
	MimeType string
}

// TextPart builds a text content part.
func TextPart(text string) Part { return Part{Text: text} }

// DataPart builds an inline binary content part.
func DataPart(data []byte, mimeType string) Part { return Part{Data: data, MimeType: mimeType} }

// ImageResult is the decoded inline image of a generate call.
type ImageResult struct {
	Data     []byte
	MimeType string
}

// Schema declares the expected shape of a structured JSON response, mirroring
// the API's responseSchema field.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema  `json:"responseSchema,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// GenerateImage sends the parts to the image model with an IMAGE response
// modality and returns the first inline image of the response. When the
// response carries no image, the error text is the response's own text part
// if present, so callers can surface the backend's reason.
func (c *Client) GenerateImage(ctx context.Context, parts []Part) (ImageResult, error) {
	payload := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: encodeParts(parts)}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	var resp generateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.imageModel)), payload, &resp); err != nil {
		return ImageResult{}, err
	}

	text := ""
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return ImageResult{}, fmt.Errorf("decode inline data: %w", err)
				}
				mime := firstNonEmpty(p.InlineData.MimeType, "image/png")
				c.logger.Debug().Str("model", c.imageModel).Int("bytes", len(data)).Msg("genai: image generated")
				return ImageResult{Data: data, MimeType: mime}, nil
			}
			if p.Text != "" && text == "" {
				text = strings.TrimSpace(p.Text)
			}
		}
	}
	if text != "" {
		return ImageResult{}, fmt.Errorf("%w: %s", ErrNoImage, text)
	}
	return ImageResult{}, ErrNoImage
}

// GenerateJSON sends the parts to the given text model requesting a JSON
// response that conforms to schema, and unmarshals it into out. A response
// that is not valid JSON for the schema yields ErrInvalidJSON.
func (c *Client) GenerateJSON(ctx context.Context, model string, parts []Part, schema *Schema, out any) error {
	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: encodeParts(parts)}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}

	var resp generateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model)), payload, &resp); err != nil {
		return err
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
	}
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidJSON)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, err)
	}
	return nil
}

// VideoConfig carries the fixed output parameters of a video job.
type VideoConfig struct {
	NumberOfVideos int    `json:"numberOfVideos,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
}

// VideoOperation is the tagged status of a long-running video job.
type VideoOperation struct {
	Name           string
	Done           bool
	URI            string
	FailureMessage string
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type startVideoRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters VideoConfig     `json:"parameters"`
}

type videoOperationResponse struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response struct {
		GeneratedVideos []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedVideos"`
	} `json:"response"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StartVideo submits a long-running video job and returns its operation name.
func (c *Client) StartVideo(ctx context.Context, promptText string, reference Part, cfg VideoConfig) (string, error) {
	inst := videoInstance{Prompt: promptText}
	if len(reference.Data) > 0 {
		inst.Image = &videoImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(reference.Data),
			MimeType:           reference.MimeType,
		}
	}
	payload := startVideoRequest{Instances: []videoInstance{inst}, Parameters: cfg}

	var resp videoOperationResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.videoModel)), payload, &resp); err != nil {
		return "", err
	}
	if resp.Name == "" {
		return "", errors.New("video job submission returned no operation name")
	}
	c.logger.Debug().Str("operation", resp.Name).Msg("genai: video job submitted")
	return resp.Name, nil
}

// PollVideo fetches the current status of a video operation.
func (c *Client) PollVideo(ctx context.Context, name string) (VideoOperation, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("poll video operation: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusBadRequest {
		return VideoOperation{}, c.decodeAPIError(httpResp)
	}

	var resp videoOperationResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return VideoOperation{}, fmt.Errorf("decode poll response: %w", err)
	}

	op := VideoOperation{Name: resp.Name, Done: resp.Done, FailureMessage: resp.Error.Message}
	if len(resp.Response.GeneratedVideos) > 0 {
		op.URI = resp.Response.GeneratedVideos[0].Video.URI
	}
	return op, nil
}

// DownloadVideo fetches the finished video payload from its result location,
// appending the access credential the download endpoint requires.
func (c *Client) DownloadVideo(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("download video status %s", httpResp.Status)
	}

	blob, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video payload: %w", err)
	}
	return blob, firstNonEmpty(httpResp.Header.Get("Content-Type"), "video/mp4"), nil
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusBadRequest {
		return c.decodeAPIError(httpResp)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) decodeAPIError(resp *http.Response) error {
	var apiErr apiErrorResponse
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	if len(data) > 0 {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return fmt.Errorf("gemini status %d", resp.StatusCode)
}

func encodeParts(parts []Part) []part {
	out := make([]part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			out = append(out, part{InlineData: &inlineData{
				MimeType: p.MimeType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		out = append(out, part{Text: p.Text})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
