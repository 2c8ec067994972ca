package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/ladle/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBody caps the response body read to prevent unbounded memory use.
const maxBody = 10 << 20 // 10 MB

// errInsecureRedirect marks a redirect pointing outside http/https.
var errInsecureRedirect = errors.New("redirect to non-http(s) target")

// Document is the raw page content handed to the extractors.
type Document struct {
	// Body is the response body as text.
	Body string

	// FinalURL is the URL after following all redirects. Relative image
	// URLs in the page are resolved against it.
	FinalURL string

	// ContentType is the Content-Type response header.
	ContentType string

	// StatusCode is the upstream HTTP status.
	StatusCode int
}

// Fetcher retrieves recipe pages over plain HTTP with a Chrome TLS
// fingerprint (utls). It performs no retries and keeps no state between
// calls; it is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// chromeH1Spec builds a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only, so the server never negotiates HTTP/2 (which Go's
// http.Transport cannot handle over a utls connection).
//
// The handshake mutates extension state inside the spec (key shares,
// padding), so the spec is consumed by the connection it is applied to.
// Every dial must build its own.
func chromeH1Spec() (*tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return nil, err
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return &spec, nil
}

// New creates a Fetcher with the given per-call timeout.
func New(timeout time.Duration) *Fetcher {
	return newFetcher(timeout, nil)
}

// newFetcher lets tests hand in a root CA pool for their TLS server.
func newFetcher(timeout time.Duration, rootCAs *x509.CertPool) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			spec, err := chromeH1Spec()
			if err != nil {
				return nil, fmt.Errorf("fetcher: build tls spec: %w", err)
			}
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host, RootCAs: rootCAs}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetcher: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Never follow redirects out of http/https: a Location
				// pointing at file:, gopher: or an internal scheme would
				// turn the import feature into a request-forgery vector.
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return errInsecureRedirect
				}
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		timeout: timeout,
	}
}

// Fetch retrieves the document at rawURL.
//
// Errors are always *models.ImportError: INVALID_URL for syntactically bad or
// non-http(s) URLs (including insecure redirect targets), NETWORK_TIMEOUT for
// deadline and transport failures, FETCH_FAILED for non-2xx responses.
// Unreachable hosts classify as NETWORK_TIMEOUT too; the caller treats both
// as transient.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, models.NewImportError(models.ErrCodeInvalidURL, "malformed URL", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, models.NewImportError(models.ErrCodeInvalidURL,
			fmt.Sprintf("unsupported scheme %q: only http and https are fetched", parsed.Scheme), nil)
	}
	if parsed.Host == "" {
		return nil, models.NewImportError(models.ErrCodeInvalidURL, "URL has no host", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, models.NewImportError(models.ErrCodeInvalidURL, "building request", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en-US;q=0.6,en;q=0.5")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewFetchFailedError(resp.StatusCode, parsed.String())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	finalURL := parsed.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Document{
		Body:        string(body),
		FinalURL:    finalURL,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// classifyTransportError maps a transport-level failure to the error taxonomy.
func classifyTransportError(err error) *models.ImportError {
	if errors.Is(err, errInsecureRedirect) {
		return models.NewImportError(models.ErrCodeInvalidURL, "redirect to non-http(s) target refused", err)
	}
	if errors.Is(err, context.Canceled) {
		return models.NewImportError(models.ErrCodeTimeout, "fetch cancelled", err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.NewImportError(models.ErrCodeTimeout, "fetch timed out", err)
	}
	// DNS failures, refused connections and the like land here; the host is
	// unreachable either way and the result is equally transient.
	return models.NewImportError(models.ErrCodeTimeout, "host unreachable", err)
}
