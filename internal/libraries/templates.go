package libraries

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"lexedit-backend/internal/lexedit/scene"
	"lexedit-backend/internal/lexedit/template"

	"cloud.google.com/go/storage"
)

// HTTPTemplateSource reads template backgrounds from the template web folder:
// <baseURL><id>p.jpg?v=<version>.
type HTTPTemplateSource struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

func NewHTTPTemplateSource(baseURL, version string, timeout time.Duration) *HTTPTemplateSource {
	return &HTTPTemplateSource{
		baseURL:    baseURL,
		version:    version,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPTemplateSource) URL(id int64) string {
	return fmt.Sprintf("%s%dp.jpg?v=%s", s.baseURL, id, s.version)
}

func (s *HTTPTemplateSource) FetchTemplate(ctx context.Context, id int64) (scene.Background, error) {
	u := s.URL(id)
	info, err := fetchImage(ctx, s.httpClient, u)
	if err != nil {
		return scene.Background{}, fmt.Errorf("template %d: %w", id, err)
	}
	return scene.Background{TemplateID: id, URL: u, Width: info.Width, Height: info.Height}, nil
}

// FetchImage implements template.ImageFetcher for object pictures.
func (s *HTTPTemplateSource) FetchImage(ctx context.Context, url string) (template.ImageInfo, error) {
	return fetchImage(ctx, s.httpClient, url)
}

func fetchImage(ctx context.Context, client *http.Client, url string) (template.ImageInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return template.ImageInfo{}, fmt.Errorf("new request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return template.ImageInfo{}, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return template.ImageInfo{}, fmt.Errorf("status %d for %s", resp.StatusCode, url)
	}
	return decodeSize(resp.Body)
}

func decodeSize(r io.Reader) (template.ImageInfo, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return template.ImageInfo{}, fmt.Errorf("decode image: %w", err)
	}
	return template.ImageInfo{Width: cfg.Width, Height: cfg.Height}, nil
}

// GCSTemplateSource reads template backgrounds from a Cloud Storage bucket,
// object "<id>p.jpg". URL is the public object URL.
type GCSTemplateSource struct {
	client *storage.Client
	bucket string
}

func NewGCSTemplateSource(client *storage.Client, bucket string) *GCSTemplateSource {
	return &GCSTemplateSource{client: client, bucket: bucket}
}

func (s *GCSTemplateSource) object(id int64) string {
	return fmt.Sprintf("%dp.jpg", id)
}

func (s *GCSTemplateSource) FetchTemplate(ctx context.Context, id int64) (scene.Background, error) {
	name := s.object(id)
	rc, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return scene.Background{}, fmt.Errorf("open gs://%s/%s: %w", s.bucket, name, err)
	}
	defer rc.Close()

	info, err := decodeSize(rc)
	if err != nil {
		return scene.Background{}, fmt.Errorf("template %d: %w", id, err)
	}
	return scene.Background{
		TemplateID: id,
		URL:        "https://storage.googleapis.com/" + s.bucket + "/" + strings.TrimPrefix(name, "/"),
		Width:      info.Width,
		Height:     info.Height,
	}, nil
}
