package vectorizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/chaos-io/vecmask/util"
	nhttp "github.com/chaos-io/vecmask/util/http"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://vectorizer.ai/api/v1/vectorize"
	defaultTimeout  = 60 * time.Second
)

// APIClient 调用 vectorizer.ai 的矢量化接口
type APIClient struct {
	endpoint      string
	creds         Credentials
	timeout       time.Duration
	maxUploadSize int
	cli           nhttp.IClient
}

type APIOption func(*APIClient)

func WithEndpoint(endpoint string) APIOption {
	return func(c *APIClient) { c.endpoint = endpoint }
}

func WithTimeout(timeout time.Duration) APIOption {
	return func(c *APIClient) { c.timeout = timeout }
}

// WithMaxUploadSize 上传前把最长边缩放到 size 以内，0 表示不缩放
func WithMaxUploadSize(size int) APIOption {
	return func(c *APIClient) { c.maxUploadSize = size }
}

func WithHTTPClient(cli nhttp.IClient) APIOption {
	return func(c *APIClient) { c.cli = cli }
}

func NewAPIClient(creds Credentials, opts ...APIOption) *APIClient {
	c := &APIClient{
		endpoint: DefaultEndpoint,
		creds:    creds,
		timeout:  defaultTimeout,
		cli:      nhttp.NewHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *APIClient) Vectorize(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if c.creds.ID == "" || c.creds.ID == placeholderID {
		return nil, ErrMissingCredentials
	}
	if opts.Format != FormatSVG && opts.Format != FormatPNG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}

	upload, err := util.EncodePNG(resizeWithinMax(img, c.maxUploadSize))
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(upload, opts)
	if err != nil {
		return nil, err
	}

	util.Logger.Info("requesting vectorization",
		zap.String("format", opts.Format),
		zap.String("mode", opts.Mode),
		zap.Int("upload_bytes", len(upload)))

	var resp []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: c.endpoint,
		Method:     "POST",
		Header: map[string]string{
			"Content-Type":  contentType,
			"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(c.creds.ID+":"+c.creds.Secret)),
		},
		Body:     body,
		Response: &resp,
		Timeout:  c.timeout,
	}
	if err := c.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("vectorize request: %w", err)
	}

	return &Result{Format: opts.Format, Data: resp}, nil
}

/*
	curl https://vectorizer.ai/api/v1/vectorize \
	 -u xyz123:[secret] \
	 -F image=@example.png \
	 -F output.file_format=svg
*/
func multipartBody(upload []byte, opts Options) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(upload); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}

	mode := opts.Mode
	if mode == "" {
		mode = "production"
	}
	fields := [][2]string{
		{"mode", mode},
		{"output.file_format", opts.Format},
	}
	if opts.MaxColors > 0 {
		fields = append(fields, [2]string{"processing.max_colors", strconv.Itoa(opts.MaxColors)})
	}
	if opts.MinShapeArea > 0 {
		fields = append(fields, [2]string{"processing.shapes.min_area_px", strconv.FormatFloat(opts.MinShapeArea, 'f', -1, 64)})
	}
	if opts.AdobeCompatibility {
		fields = append(fields, [2]string{"output.svg.adobe_compatibility_mode", "true"})
	}
	if opts.DisableGapFiller {
		fields = append(fields, [2]string{"output.gap_filler.enabled", "false"})
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

// resizeWithinMax 缩放（最长边 <= maxSize）
func resizeWithinMax(img image.Image, maxSize int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}
