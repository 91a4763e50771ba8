package sink

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/engine"
	"github.com/vk/datagridgo/internal/generr"
)

// ObjectPutter is the part of the S3 client used by the sink.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// HTTPDoer is the part of *http.Client used by the sink.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// contentType picks the upload content type from the object name, falling
// back to the encoder's own.
func contentType(name string, enc encoder) string {
	ext := path.Ext(name)
	if ext == "" {
		ext = enc.Extension()
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return enc.ContentType()
}

type s3Writer struct {
	enc    encoder
	client ObjectPutter
	bucket string
	key    string
}

// parseS3Target splits s3://bucket/key.
func parseS3Target(target string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(target, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", generr.Configurationf("invalid s3 target %q: expected s3://bucket/key", target)
	}
	return bucket, key, nil
}

func newS3Writer(ctx context.Context, enc encoder, target string, client ObjectPutter) (Writer, error) {
	bucket, key, err := parseS3Target(target)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client, err = s3ClientFromEnv()
		if err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Debug("S3 sink ready.", "bucket", bucket, "key", key)
	return &s3Writer{enc: enc, client: client, bucket: bucket, key: key}, nil
}

// s3ClientFromEnv builds a client from AWS_REGION, AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN and AWS_ENDPOINT_URL. A custom
// endpoint switches to path-style addressing.
func s3ClientFromEnv() (*s3.Client, error) {
	keyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if keyID == "" || secret == "" {
		return nil, generr.Configurationf("s3 output requires AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(keyID, secret, os.Getenv("AWS_SESSION_TOKEN")),
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts), nil
}

func (w *s3Writer) Write(ctx context.Context, columns []Column, rows []engine.Row) error {
	logger := ctxlog.FromContext(ctx).With("bucket", w.bucket, "key", w.key)

	var buf bytes.Buffer
	if err := w.enc.Encode(&buf, columns, rows); err != nil {
		return err
	}

	ct := contentType(w.key, w.enc)
	logger.Info("Uploading rows to S3.", "size", buf.Len(), "contentType", ct)

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(w.key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(ct),
	})
	if err != nil {
		return errors.Wrapf(err, "uploading to s3://%s/%s", w.bucket, w.key)
	}

	logger.Info("Successfully uploaded rows.")
	return nil
}

func (w *s3Writer) Close() error { return nil }

type httpWriter struct {
	enc    encoder
	client HTTPDoer
	url    string
}

func newHTTPWriter(enc encoder, url string, client HTTPDoer) Writer {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpWriter{enc: enc, client: client, url: url}
}

// Write posts the encoded rows. Any status outside 2xx is an error.
func (w *httpWriter) Write(ctx context.Context, columns []Column, rows []engine.Row) error {
	logger := ctxlog.FromContext(ctx)

	var buf bytes.Buffer
	if err := w.enc.Encode(&buf, columns, rows); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", w.enc.ContentType())

	logger.Info("Posting rows.", "url", redact(w.url), "size", buf.Len())

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "executing request")
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf("post failed with status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	logger.Info("Received HTTP response.", "status", resp.Status)
	return nil
}

func (w *httpWriter) Close() error { return nil }

