// Package imageprobe resolves an image URL to its pixel dimensions before
// the URL is saved on a profile. Only the image header is read.
package imageprobe

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage means the URL did not resolve to a decodable image.
var ErrNotImage = errors.New("imageprobe: not an image")

// ErrBlockedAddress is returned by the dial guard for addresses that are
// not publicly routable.
var ErrBlockedAddress = errors.New("imageprobe: address not allowed")

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 1 << 20
	maxRedirects    = 3
)

// Dimensions of a probed image.
type Dimensions struct {
	Width  int
	Height int
}

// Prober resolves image URLs.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (Dimensions, error)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(ctx context.Context, rawURL string) (Dimensions, error)

func (f ProbeFunc) Probe(ctx context.Context, rawURL string) (Dimensions, error) {
	return f(ctx, rawURL)
}

// HTTPProber fetches the URL and decodes the image header.
type HTTPProber struct {
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes int64
}

// New returns an HTTPProber. A non-positive timeout uses the default.
// Its client only connects to public addresses, checked after DNS
// resolution on every hop, and follows at most three redirects.
func New(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPProber{Client: PublicClient(), Timeout: timeout, MaxBytes: defaultMaxBytes}
}

// PublicClient returns an http.Client whose dialer refuses loopback,
// private, link-local, multicast and unspecified addresses.
func PublicClient() *http.Client {
	dialer := &net.Dialer{Timeout: defaultTimeout, Control: guardDial}
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   defaultTimeout,
		ResponseHeaderTimeout: defaultTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: too many redirects", ErrNotImage)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("%w: redirect to %q", ErrNotImage, req.URL.Scheme)
			}
			return nil
		},
	}
}

// guardDial runs after resolution, once per connection attempt, so a
// hostname that resolves to an internal address is refused too.
func guardDial(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if !Public(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ap.Addr())
	}
	return nil
}

// Public reports whether addr is a globally routable unicast address.
func Public(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast():
		return false
	}
	if addr.Is4() && cgnat.Contains(addr) {
		return false
	}
	return true
}

var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// Probe returns the dimensions of the image at rawURL. Any failure to
// fetch or decode wraps ErrNotImage.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (Dimensions, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Dimensions{}, fmt.Errorf("%w: bad url %q", ErrNotImage, rawURL)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	req.Header.Set("Accept", "image/*")

	client := p.Client
	if client == nil {
		client = PublicClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Dimensions{}, fmt.Errorf("%w: status %d", ErrNotImage, resp.StatusCode)
	}
	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mt, "image/") {
		return Dimensions{}, fmt.Errorf("%w: content type %q", ErrNotImage, mt)
	}

	limit := p.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
