package http

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/method"
)

var (
	cacheBustParam = regexp.MustCompile(`([?&])_=[^&]*`)
	timeNow        = time.Now
)

// RequestInit holds the request properties. Zero values stand for defaults when passed to
// NewRequest, and for properties inherited from the source request when passed to FromRequest.
type RequestInit struct {
	// Method defaults to method.GET. Standard methods are normalized to upper case,
	// extension methods are kept as is.
	Method method.Method
	// Headers are copied, so the storage may be reused.
	Headers Headers
	Body    Body
	// Cache is one of default, no-store, reload, no-cache, force-cache and only-if-cached.
	// no-store and no-cache make GET and HEAD requests URLs unique.
	Cache          string
	Credentials    string
	Integrity      string
	Keepalive      bool
	Mode           string
	Redirect       string
	Referrer       string
	ReferrerPolicy string
	Signal         *Signal
	// Config defaults to config.Default().
	Config *config.Config
}

// Request represents an HTTP request. It's immutable, except for the body being read.
type Request struct {
	message
	method         method.Method
	url            string
	cache          string
	credentials    string
	destination    string
	integrity      string
	keepalive      bool
	mode           string
	redirect       string
	referrer       string
	referrerPolicy string
	signal         *Signal
}

func NewRequest(url string, init RequestInit) (*Request, error) {
	r := &Request{
		method:      method.GET,
		url:         url,
		cache:       "default",
		credentials: "same-origin",
		destination: "worker",
		mode:        "cors",
		redirect:    "follow",
	}

	r.apply(init)

	if err := r.validate(init.Body); err != nil {
		return nil, err
	}

	r.finalize(init.Config, init.Body, init.Headers)

	return r, nil
}

// FromRequest derives a new request from the source one, overriding its properties by
// non-zero fields of init. If init carries no body, the source's body is moved into the new
// request, so the source becomes consumed. The source is left untouched if the derived
// request turns out to be invalid.
func FromRequest(src *Request, init RequestInit) (*Request, error) {
	r := &Request{
		method:         src.method,
		url:            src.url,
		cache:          src.cache,
		credentials:    src.credentials,
		destination:    src.destination,
		integrity:      src.integrity,
		keepalive:      src.keepalive,
		mode:           src.mode,
		redirect:       src.redirect,
		referrer:       src.referrer,
		referrerPolicy: src.referrerPolicy,
		signal:         src.signal,
	}

	r.apply(init)

	cfg := init.Config
	if cfg == nil {
		cfg = src.cfg
	}

	headers := init.Headers
	if headers == nil {
		headers = src.headers
	}

	body := init.Body
	inherited := body.kind == KindEmpty
	if inherited {
		body = src.body
	}

	if err := r.validate(body); err != nil {
		return nil, err
	}

	if inherited {
		var err error
		if body, err = src.take(); err != nil {
			return nil, err
		}
	}

	r.finalize(cfg, body, headers)

	return r, nil
}

func (r *Request) apply(init RequestInit) {
	if init.Method != method.Unknown {
		r.method = method.Parse(string(init.Method))
	}

	override(&r.cache, init.Cache)
	override(&r.credentials, init.Credentials)
	override(&r.integrity, init.Integrity)
	override(&r.mode, init.Mode)
	override(&r.redirect, init.Redirect)
	override(&r.referrer, init.Referrer)
	override(&r.referrerPolicy, init.ReferrerPolicy)
	r.keepalive = r.keepalive || init.Keepalive

	if init.Signal != nil {
		r.signal = init.Signal
	}
}

func (r *Request) validate(body Body) error {
	if r.method == method.Unknown || method.Forbidden(r.method) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, r.method)
	}

	if method.NoBody(r.method) && !body.Empty() {
		return ErrBodyNotAllowed
	}

	return nil
}

// finalize must be called only on validated requests.
func (r *Request) finalize(cfg *config.Config, body Body, headers Headers) {
	if method.NoBody(r.method) && (r.cache == "no-store" || r.cache == "no-cache") {
		r.url = bustCache(r.url, timeNow())
	}

	r.init(cfg, body, headers)
}

// bustCache makes the URL unique by setting the _ query parameter to the current timestamp.
func bustCache(url string, now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)

	if cacheBustParam.MatchString(url) {
		return cacheBustParam.ReplaceAllString(url, "${1}_="+stamp)
	}

	sep := "?"
	if strings.IndexByte(url, '?') != -1 {
		sep = "&"
	}

	return url + sep + "_=" + stamp
}

func override(dst *string, value string) {
	if len(value) > 0 {
		*dst = value
	}
}

// Clone returns an independent copy of the request. It fails if the body has already been read.
func (r *Request) Clone() (*Request, error) {
	clone := &Request{
		method:         r.method,
		url:            r.url,
		cache:          r.cache,
		credentials:    r.credentials,
		destination:    r.destination,
		integrity:      r.integrity,
		keepalive:      r.keepalive,
		mode:           r.mode,
		redirect:       r.redirect,
		referrer:       r.referrer,
		referrerPolicy: r.referrerPolicy,
		signal:         r.signal,
	}

	if err := r.cloneInto(&clone.message); err != nil {
		return nil, err
	}

	return clone, nil
}

func (r *Request) Method() method.Method {
	return r.method
}

func (r *Request) URL() string {
	return r.url
}

func (r *Request) Cache() string {
	return r.cache
}

func (r *Request) Credentials() string {
	return r.credentials
}

// Destination is always "worker", as requests are never made by documents.
func (r *Request) Destination() string {
	return r.destination
}

func (r *Request) Integrity() string {
	return r.integrity
}

func (r *Request) Keepalive() bool {
	return r.keepalive
}

func (r *Request) Mode() string {
	return r.mode
}

// Redirect returns the redirect mode: follow, error or manual.
func (r *Request) Redirect() string {
	return r.redirect
}

func (r *Request) Referrer() string {
	return r.referrer
}

func (r *Request) ReferrerPolicy() string {
	return r.referrerPolicy
}

// Signal may be nil.
func (r *Request) Signal() *Signal {
	return r.signal
}
