package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"dementiaui/internal/config"
	"dementiaui/internal/logger"
	"dementiaui/internal/model"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client forwards uploads to the prediction backend.
type Client struct {
	url        string
	tempDir    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		url:        cfg.BackendURL,
		tempDir:    cfg.TempDirectory,
		httpClient: &http.Client{Timeout: cfg.BackendTimeout},
		logger:     logger,
	}
}

// ValidateUpload checks the upload before anything is sent.
func ValidateUpload(req *model.PredictionRequest) error {
	if req == nil || req.Filename == "" {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(req.Filename), ".zip") {
		return ErrNotZip
	}
	return nil
}

// Predict sends the archive as one multipart POST and decodes the response.
// The upload is staged to a temp file that is removed before returning.
func (c *Client) Predict(ctx context.Context, req *model.PredictionRequest) (*model.PredictionResult, int, error) {
	if err := ValidateUpload(req); err != nil {
		return nil, 0, err
	}

	staged, err := c.stage(req.Content)
	if err != nil {
		return nil, 0, err
	}
	defer c.discard(staged)

	body, contentType, err := buildMultipart(staged, req.Filename)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, 0, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, &TransportError{Err: fmt.Errorf("read response: %w", err)}
		}
		return nil, resp.StatusCode, &BackendError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	result, err := decodeResult(data)
	if err != nil {
		return nil, resp.StatusCode, &BackendError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("invalid response from backend: %v", err),
		}
	}

	return result, resp.StatusCode, nil
}

// decodeResult accepts a body only if it is a single JSON object carrying
// both a prediction and a confidence.
func decodeResult(data []byte) (*model.PredictionResult, error) {
	var required struct {
		Prediction *string  `json:"prediction"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(data, &required); err != nil {
		return nil, err
	}
	if required.Prediction == nil || *required.Prediction == "" {
		return nil, errors.New("missing prediction")
	}
	if required.Confidence == nil {
		return nil, errors.New("missing confidence")
	}

	var result model.PredictionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// stage writes the upload to a temp file so the request body is read from disk.
func (c *Client) stage(content []byte) (*os.File, error) {
	f, err := os.CreateTemp(c.tempDir, "upload-*.zip")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		c.discard(f)
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		c.discard(f)
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	return f, nil
}

func (c *Client) discard(f *os.File) {
	f.Close()
	if err := os.Remove(f.Name()); err != nil {
		c.logger.Warning("Failed to remove staged upload %s: %v", f.Name(), err)
	}
}

// buildMultipart creates the "file" part with the zip content type, which
// multipart.Writer.CreateFormFile would report as application/octet-stream.
func buildMultipart(src io.Reader, filename string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", model.ZipContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy upload data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
