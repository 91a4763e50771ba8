package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/engine"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/zclconf/go-cty/cty"
)

// Column describes one output column.
type Column struct {
	Name string
	Type cty.Type
}

// Writer receives the rows of a generation run.
type Writer interface {
	// Write stores rows. Values are looked up by column name; columns are
	// written in the given order.
	Write(ctx context.Context, columns []Column, rows []engine.Row) error
	// Close releases the destination.
	Close() error
}

// Options selects a sink.
type Options struct {
	// Format is one of json, jsonl, yaml, csv, text or sql. When empty it is
	// inferred from Target.
	Format string
	// Target is a file path, "-" or "" for Stdout, s3://bucket/key,
	// http(s)://..., or a database URL for the sql format.
	Target string
	// Table names the SQL table. It defaults to "rows".
	Table string
	// Stdout receives output when Target is "-" or "".
	Stdout io.Writer
	// S3 uploads objects for s3:// targets. When nil a client is built from
	// the environment.
	S3 ObjectPutter
	// HTTP posts bodies for http(s):// targets. When nil a default client is
	// used.
	HTTP HTTPDoer
}

// Formats lists every supported format.
func Formats() []string {
	return []string{"json", "jsonl", "yaml", "csv", "text", "sql"}
}

// New opens the sink described by opts.
func New(ctx context.Context, opts Options) (Writer, error) {
	logger := ctxlog.FromContext(ctx)

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = inferFormat(opts.Target)
	}
	logger.Debug("Opening sink.", "format", format, "target", redact(opts.Target))

	if format == "sql" {
		return openSQL(ctx, opts.Target, opts.Table)
	}

	enc, err := encoderFor(format)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Target == "" || opts.Target == "-":
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return &streamWriter{enc: enc, w: nopCloser{out}}, nil

	case strings.HasPrefix(opts.Target, "s3://"):
		return newS3Writer(ctx, enc, opts.Target, opts.S3)

	case strings.HasPrefix(opts.Target, "http://") || strings.HasPrefix(opts.Target, "https://"):
		return newHTTPWriter(enc, opts.Target, opts.HTTP), nil

	default:
		return newFileWriter(enc, opts.Target)
	}
}

// inferFormat guesses the format from a target's scheme or extension.
func inferFormat(target string) string {
	if parseDialect(target) != "" {
		return "sql"
	}
	switch strings.ToLower(filepath.Ext(target)) {
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".yaml", ".yml":
		return "yaml"
	case ".csv":
		return "csv"
	case ".txt":
		return "text"
	default:
		return "json"
	}
}

// streamWriter encodes rows into an io.WriteCloser.
type streamWriter struct {
	enc encoder
	w   io.WriteCloser
}

func (s *streamWriter) Write(_ context.Context, columns []Column, rows []engine.Row) error {
	return s.enc.Encode(s.w, columns, rows)
}

func (s *streamWriter) Close() error {
	return s.w.Close()
}

func newFileWriter(enc encoder, path string) (Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, generr.Configuration(err, "creating output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, generr.Configuration(err, "creating output file %s", path)
	}
	return &streamWriter{enc: enc, w: f}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// redact hides credentials embedded in a URL target before logging it.
func redact(target string) string {
	at := strings.LastIndex(target, "@")
	scheme := strings.Index(target, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return target
	}
	return target[:scheme+3] + "***" + target[at:]
}
