// tracks/provider.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tracks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airwaynet/routegraph/util"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"google.golang.org/api/option"
)

// Provider supplies the XML track message for a track system. The caller
// closes the returned reader.
type Provider interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// contextReader stops returning data once its context is canceled, so
// that parsing a message from a slow source can be interrupted.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

///////////////////////////////////////////////////////////////////////////
// FileProvider

// FileProvider reads a track message from a local file, which may be zstd
// compressed.
type FileProvider struct {
	Path string
}

func (f FileProvider) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.OpenFile(f.Path)
}

///////////////////////////////////////////////////////////////////////////
// HTTPProvider

// HTTPProvider downloads a track message. Downloaded messages are kept
// for a while so that handlers for the same system don't each hit the
// server.
type HTTPProvider struct {
	URL    string
	Client *http.Client

	cache *expirable.LRU[string, []byte]
}

func NewHTTPProvider(url string, ttl time.Duration) *HTTPProvider {
	return &HTTPProvider{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		cache:  expirable.NewLRU[string, []byte](8, nil, ttl),
	}
}

func (h *HTTPProvider) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if b, ok := h.cache.Get(h.URL); ok {
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", h.URL, resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	h.cache.Add(h.URL, b)

	return io.NopCloser(bytes.NewReader(b)), nil
}

// Invalidate drops the cached message so that the next Fetch downloads
// it again.
func (h *HTTPProvider) Invalidate() {
	h.cache.Remove(h.URL)
}

///////////////////////////////////////////////////////////////////////////
// GCSProvider

// GCSProvider reads a track message from a Google Cloud Storage object.
// If CredentialsJSON is empty, the default application credentials are
// used.
type GCSProvider struct {
	Bucket          string
	Object          string
	CredentialsJSON []byte
}

type gcsReadCloser struct {
	*storage.Reader
	client *storage.Client
}

func (g gcsReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func (g GCSProvider) Fetch(ctx context.Context) (io.ReadCloser, error) {
	var opts []option.ClientOption
	if len(g.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(g.CredentialsJSON))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	r, err := client.Bucket(g.Bucket).Object(g.Object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("gs://%s/%s: %w", g.Bucket, g.Object, err)
	}

	return gcsReadCloser{Reader: r, client: client}, nil
}

///////////////////////////////////////////////////////////////////////////
// S3Provider

// S3Provider reads a track message from an S3 object. Static credentials
// are used if an access key is given; otherwise the SDK's default
// credential chain is. Endpoint may be set to use an S3-compatible
// service.
type S3Provider struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (p S3Provider) Fetch(ctx context.Context) (io.ReadCloser, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(p.Region)}
	if p.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.AccessKeyID, p.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
			o.UsePathStyle = true
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(p.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", p.Bucket, p.Key, err)
	}
	return out.Body, nil
}
