// Package embedding talks to the external face detection/embedding server.
// Detection and embedding are collaborators, not part of this service: the
// core only ever sees the numeric vectors this package returns.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/faceattend/faceattend/internal/gallery"
)

// ErrNoFace means the server found no face in the submitted image.
var ErrNoFace = errors.New("no face detected")

const defaultModel = "facenet"

// Embedder turns an image into a face embedding vector.
type Embedder interface {
	EmbedImage(ctx context.Context, image []byte) (gallery.Vector, error)
}

// Client is an HTTP client for the embedding server. The server accepts a
// multipart image upload and responds with the embedding of the most
// confident detected face.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates an embedding client. model defaults to "facenet" when
// empty and is only passed through for server-side bookkeeping.
func NewClient(baseURL, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// faceResponse is the embedding server's answer for a face embedding request.
type faceResponse struct {
	FacesCount int       `json:"faces_count"`
	Dim        int       `json:"dim"`
	Embedding  []float32 `json:"embedding"`
	Model      string    `json:"model"`
}

// EmbedImage uploads the image and returns the embedding of the detected
// face. ErrNoFace is returned when the server reports zero faces.
func (c *Client) EmbedImage(ctx context.Context, image []byte) (gallery.Vector, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	part, err := writer.CreateFormFile("file", "face.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed/face", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding server error (status %d): %s", resp.StatusCode, string(body))
	}

	var face faceResponse
	if err := json.Unmarshal(body, &face); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if face.FacesCount == 0 || len(face.Embedding) == 0 {
		return nil, ErrNoFace
	}

	return gallery.Vector(face.Embedding), nil
}

// Model returns the model label being passed to the server.
func (c *Client) Model() string {
	return c.model
}
