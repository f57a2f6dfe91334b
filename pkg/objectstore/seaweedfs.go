package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// SeaweedFS talks to a SeaweedFS master. Uploads go through /submit, which assigns a file id
// and forwards the bytes to a volume server in one round trip.
type SeaweedFS struct {
	master   string
	client   *http.Client
	maxBytes int64
}

type submitResponse struct {
	FileID   string `json:"fid"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	Size     int64  `json:"size"`
	Error    string `json:"error"`
}

// NewSeaweedFS builds a client for the given master URL. Reads larger than maxBytes fail with
// ErrTooLarge; zero selects DefaultMaxObjectBytes.
func NewSeaweedFS(master string, timeout time.Duration, maxBytes int64) *SeaweedFS {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SeaweedFS{
		master:   strings.TrimRight(NormalizeURL(master), "/"),
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Put submits data to the master and returns the volume URL it was written to.
func (s *SeaweedFS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("seaweedfs: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("seaweedfs: build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("seaweedfs: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.master+"/submit", body)
	if err != nil {
		return "", fmt.Errorf("seaweedfs: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("seaweedfs: submit: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var out submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("seaweedfs: decode submit response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || out.Error != "" {
		return "", fmt.Errorf("seaweedfs: submit failed (status %d): %s", resp.StatusCode, out.Error)
	}
	if out.FileURL == "" {
		return "", fmt.Errorf("seaweedfs: submit response missing fileUrl")
	}

	return NormalizeURL(out.FileURL), nil
}

// Get downloads the object behind url.
func (s *SeaweedFS) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, NormalizeURL(url), nil)
	if err != nil {
		return nil, fmt.Errorf("seaweedfs: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("seaweedfs: get: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seaweedfs: get: unexpected status %d", resp.StatusCode)
	}
	data, err := readLimited(resp.Body, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("seaweedfs: get: %w", err)
	}
	return data, nil
}

// Delete removes the object behind url. A missing object is not an error.
func (s *SeaweedFS) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, NormalizeURL(url), nil)
	if err != nil {
		return fmt.Errorf("seaweedfs: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("seaweedfs: delete: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("seaweedfs: delete: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
