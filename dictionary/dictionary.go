// Package dictionary loads word lists for the solver from local files or GCS.
package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	googleopt "google.golang.org/api/option"
)

const gcsScheme = "gs://"

var (
	ErrBadGCSURL = errors.New("GCS source must look like gs://bucket/object")
	ErrNoWords   = errors.New("dictionary contains no usable words")
)

// Stats describes one load.
type Stats struct {
	Lines   int
	Words   int
	Skipped int
}

type loadOptions struct {
	gcs *storage.Client
}

type Option func(*loadOptions)

// WithStorageClient supplies the GCS client used for gs:// sources.  Without
// it Load creates a client from Application Default Credentials.
func WithStorageClient(c *storage.Client) Option {
	return func(o *loadOptions) {
		o.gcs = c
	}
}

// Parse reads one word per line.  Words are trimmed and uppercased.  Blank
// lines are ignored; lines holding anything besides letters are skipped and
// counted in Stats.Skipped.
func Parse(r io.Reader) ([]string, Stats, error) {
	stats := Stats{}
	words := []string{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		stats.Lines++

		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if w == "" {
			continue
		}
		if !isLetters(w) {
			glog.V(1).Infof("Skipping dictionary line %d %q: not A-Z", stats.Lines, w)
			stats.Skipped++
			continue
		}

		words = append(words, w)
		stats.Words++
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("while scanning word list: %w", err)
	}

	return words, stats, nil
}

func isLetters(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// SplitGCSURL splits gs://bucket/object into its parts.
func SplitGCSURL(source string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(source, gcsScheme)
	if rest == source {
		return "", "", fmt.Errorf("%q: %w", source, ErrBadGCSURL)
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q: %w", source, ErrBadGCSURL)
	}
	return parts[0], parts[1], nil
}

// Load reads a word list from source, a local path or a gs://bucket/object
// URL.
func Load(ctx context.Context, source string, opts ...Option) ([]string, Stats, error) {
	tracer := otel.Tracer("row-major/boggle/dictionary")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "dictionary.Load")
	defer span.End()

	span.SetAttributes(attribute.String("source", source))

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	words, stats, err := load(ctx, source, o)
	if err == nil && len(words) == 0 {
		err = fmt.Errorf("while loading %q: %w", source, ErrNoWords)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, stats, err
	}

	span.SetAttributes(
		attribute.Int("words", stats.Words),
		attribute.Int("skipped", stats.Skipped),
	)
	glog.Infof("Loaded dictionary %q: lines=%d words=%d skipped=%d", source, stats.Lines, stats.Words, stats.Skipped)

	return words, stats, nil
}

func load(ctx context.Context, source string, o *loadOptions) ([]string, Stats, error) {
	if !strings.HasPrefix(source, gcsScheme) {
		f, err := os.Open(source)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("while opening dictionary file %q: %w", source, err)
		}
		defer f.Close()
		return Parse(f)
	}

	bucket, object, err := SplitGCSURL(source)
	if err != nil {
		return nil, Stats{}, err
	}

	gcs := o.gcs
	if gcs == nil {
		gcs, err = storage.NewClient(ctx, googleopt.WithGRPCConnectionPool(1))
		if err != nil {
			return nil, Stats{}, fmt.Errorf("while creating GCS client: %w", err)
		}
		defer gcs.Close()
	}

	r, err := gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("while opening reader for %q: %w", source, err)
	}
	defer r.Close()

	return Parse(r)
}
