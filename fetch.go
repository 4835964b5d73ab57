package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http"
	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/method"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/internal/strutil"
	"github.com/indigo-web/fetch/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/rs/zerolog"
)

var (
	ErrAborted    = errors.New("request is aborted")
	ErrNoResponse = errors.New("transport returned neither a response nor an error")
)

// Outgoing is a request, which is ready to be sent. Its body is already serialized.
type Outgoing struct {
	Method  method.Method
	URL     string
	Headers *kv.Storage
	Body    []byte
}

// Incoming is a raw response as received by the transport. The body may still be
// chunked-encoded, if the Transfer-Encoding header says so.
type Incoming struct {
	Status  status.Code
	Headers *kv.Storage
	Body    []byte
}

// Transport does the actual I/O. It must respect the context, which is cancelled as
// soon as the request's signal is aborted.
type Transport interface {
	RoundTrip(ctx context.Context, req *Outgoing) (*Incoming, error)
}

// TransportFunc is an adapter allowing ordinary functions to be used as transports.
type TransportFunc func(ctx context.Context, req *Outgoing) (*Incoming, error)

func (t TransportFunc) RoundTrip(ctx context.Context, req *Outgoing) (*Incoming, error) {
	return t(ctx, req)
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// Client binds requests and responses to a transport.
type Client struct {
	transport Transport
	logger    zerolog.Logger
	cfg       *config.Config
}

func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		logger:    zerolog.Nop(),
		cfg:       config.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch constructs a request and does it.
func (c *Client) Fetch(url string, init http.RequestInit) (*http.Response, error) {
	if init.Config == nil {
		init.Config = c.cfg
	}

	req, err := http.NewRequest(url, init)
	if err != nil {
		return nil, err
	}

	return c.Do(req)
}

// Do sends the request and wraps the received payload into a response. The request's body
// is consumed. Payloads of application/* types, except JSON, are represented as blobs,
// everything else as text.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if signal := req.Signal(); signal.Aborted() {
		return nil, fmt.Errorf("%w: %w", ErrAborted, signal.Reason())
	}

	body, err := req.Bytes()
	if err != nil {
		return nil, err
	}

	headers := req.Headers().Clone()
	if !headers.Has("user-agent") && len(c.cfg.Client.UserAgent) > 0 {
		headers.Set("user-agent", c.cfg.Client.UserAgent)
	}

	start := time.Now()
	incoming, err := c.transport.RoundTrip(req.Signal().Context(), &Outgoing{
		Method:  req.Method(),
		URL:     req.URL(),
		Headers: headers,
		Body:    body,
	})

	switch {
	case err != nil && req.Signal().Aborted():
		err = fmt.Errorf("%w: %w", ErrAborted, req.Signal().Reason())
	case err == nil && incoming == nil:
		err = ErrNoResponse
	}

	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("method", req.Method().String()).
			Str("url", req.URL()).
			Msg("Round trip failed")

		return nil, err
	}

	c.logger.Debug().
		Str("method", req.Method().String()).
		Str("url", req.URL()).
		Uint16("status", uint16(incoming.Status)).
		Int("size", len(incoming.Body)).
		Dur("took", time.Since(start)).
		Msg("Round trip done")

	return c.wrap(req, incoming)
}

func (c *Client) wrap(req *http.Request, incoming *Incoming) (*http.Response, error) {
	headers := incoming.Headers
	if headers == nil {
		headers = kv.NewPrealloc(c.cfg.Headers.Prealloc)
	}

	payload := incoming.Body
	if chunked(headers) {
		var err error
		if payload, err = dechunk(payload, headers.Has("trailer")); err != nil {
			return nil, err
		}

		headers.Delete("transfer-encoding")
	}

	var body http.Body
	contentType := headers.Value("content-type")
	switch {
	case len(payload) == 0:
		body = http.NoBody
	case strings.Contains(contentType, "application") && !strings.Contains(contentType, mime.JSON):
		body = http.BlobBody(blob.New([]any{payload}, blob.Options{Type: contentType}))
	default:
		body = http.TextBody(blob.DecodeText(payload))
	}

	return http.NewResponse(body, http.ResponseInit{
		Status:  incoming.Status,
		Headers: headers,
		URL:     req.URL(),
		Config:  c.cfg,
	})
}

func chunked(headers *kv.Storage) bool {
	for value := range headers.Values("transfer-encoding") {
		for token := range strutil.Split(value, ',') {
			if strcomp.EqualFold(strutil.StripWS(token), "chunked") {
				return true
			}
		}
	}

	return false
}

func dechunk(data []byte, trailer bool) ([]byte, error) {
	parser := chunkedbody.NewParser(chunkedbody.DefaultSettings())
	body := make([]byte, 0, len(data))

	for {
		chunk, extra, err := parser.Parse(data, trailer)
		body = append(body, chunk...)

		switch err {
		case nil:
		case io.EOF:
			return body, nil
		default:
			return nil, err
		}

		if len(extra) == 0 {
			return nil, io.ErrUnexpectedEOF
		}

		data = extra
	}
}
