// Package imagehost uploads service images to an unsigned Cloudinary-style
// upload endpoint.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// Config captures the upload endpoint settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.cloudinary.com/v1_1.
	BaseURL   string
	CloudName string
	Preset    string
	Timeout   time.Duration
}

type Uploader struct {
	endpoint string
	preset   string
	client   *http.Client
	log      zerolog.Logger
}

func NewUploader(cfg Config, log zerolog.Logger) *Uploader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Uploader{
		endpoint: fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(cfg.BaseURL, "/"), cfg.CloudName),
		preset:   cfg.Preset,
		client:   &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "imagehost").Logger(),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file as multipart form data and returns its secure URL.
func (u *Uploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", domain.Unreachable(fmt.Errorf("create form file: %w", err))
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", domain.Invalid("No se pudo leer la imagen.")
	}
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return "", domain.Unreachable(fmt.Errorf("write preset: %w", err))
	}
	if err := mw.Close(); err != nil {
		return "", domain.Unreachable(fmt.Errorf("close multipart: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return "", domain.Unreachable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", domain.Unreachable(err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < http.StatusBadRequest {
		return "", domain.Unreachable(fmt.Errorf("decode upload response: %w", err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", domain.Rejected(resp.StatusCode, out.Error.Message)
	}
	if out.SecureURL == "" {
		return "", domain.Rejected(resp.StatusCode, "La respuesta no incluye la URL de la imagen.")
	}

	u.log.Debug().Str("filename", filename).Str("url", out.SecureURL).Msg("image uploaded")
	return out.SecureURL, nil
}
