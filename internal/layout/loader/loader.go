package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

// Loader implements pkglayout.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ pkglayout.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkglayout.LoaderOptions) pkglayout.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkglayout.Source) (pkglayout.Document, error) {
	if src == nil {
		return pkglayout.Document{}, errors.New("layout loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkglayout.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkglayout.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkglayout.SourceKindURL:
		if !l.allowHTTP {
			return pkglayout.Document{}, errors.New("layout loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("layout loader: unsupported source kind")
	}
	if err != nil {
		return pkglayout.Document{}, err
	}

	return pkglayout.NewDocument(src, data)
}
