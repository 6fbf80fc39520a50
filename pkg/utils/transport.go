// pkg/utils/transport.go
package utils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	utls "github.com/refraction-networking/utls"
	proxy "golang.org/x/net/proxy"
)

const (
	FingerprintNone   = "none"
	FingerprintRandom = "random"
)

var clientHelloIDs = map[string]utls.ClientHelloID{
	"chrome":  utls.HelloChrome_Auto,
	"firefox": utls.HelloFirefox_Auto,
	"safari":  utls.HelloSafari_Auto,
	"edge":    utls.HelloEdge_Auto,
}

func randomHelloID() utls.ClientHelloID {
	ids := []utls.ClientHelloID{
		utls.HelloChrome_Auto,
		utls.HelloFirefox_Auto,
		utls.HelloSafari_Auto,
		utls.HelloEdge_Auto,
	}
	return ids[rand.Intn(len(ids))]
}

// TransportOptions configures the round tripper built by NewTransport.
type TransportOptions struct {
	ProxyURLs    []string
	Fingerprint  string
	MaxIdleConns int
	// RootCAs verifies upstream and https proxy certificates. Nil uses the
	// system pool.
	RootCAs *x509.CertPool
}

// ProxyRotator spreads requests over one transport per proxy.
// The transports are built once and never modified afterwards.
type ProxyRotator struct {
	transports []http.RoundTripper
	currentIdx uint32
}

func NewProxyRotator(transports []http.RoundTripper) (*ProxyRotator, error) {
	if len(transports) == 0 {
		return nil, fmt.Errorf("proxy rotator needs at least one transport")
	}
	return &ProxyRotator{transports: transports}, nil
}

func (r *ProxyRotator) RoundTrip(req *http.Request) (*http.Response, error) {
	idx := (atomic.AddUint32(&r.currentIdx, 1) - 1) % uint32(len(r.transports))
	return r.transports[idx].RoundTrip(req)
}

func (r *ProxyRotator) CloseIdleConnections() {
	for _, tr := range r.transports {
		if c, ok := tr.(interface{ CloseIdleConnections() }); ok {
			c.CloseIdleConnections()
		}
	}
}

// NewTransport returns a direct transport when no proxies are configured,
// otherwise a ProxyRotator over one transport per proxy.
func NewTransport(opts TransportOptions) (http.RoundTripper, error) {
	fingerprint := strings.ToLower(opts.Fingerprint)
	if fingerprint == "" {
		fingerprint = FingerprintNone
	}
	if fingerprint != FingerprintNone && fingerprint != FingerprintRandom {
		if _, ok := clientHelloIDs[fingerprint]; !ok {
			return nil, fmt.Errorf("unsupported TLS fingerprint: %s", opts.Fingerprint)
		}
	}

	if len(opts.ProxyURLs) == 0 {
		return newHTTPTransport(nil, fingerprint, opts.MaxIdleConns, opts.RootCAs)
	}

	var transports []http.RoundTripper
	for i, rawURL := range opts.ProxyURLs {
		proxyURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL %s: %w", maskProxyURL(rawURL), err)
		}

		tr, err := newHTTPTransport(proxyURL, fingerprint, opts.MaxIdleConns, opts.RootCAs)
		if err != nil {
			return nil, err
		}
		transports = append(transports, tr)

		slog.Info("Configured proxy", "index", i+1, "proxy", maskProxyURL(rawURL))
	}

	return NewProxyRotator(transports)
}

func newHTTPTransport(proxyURL *url.URL, fingerprint string, maxIdleConns int, rootCAs *x509.CertPool) (*http.Transport, error) {
	if maxIdleConns <= 0 {
		maxIdleConns = 100
	}

	transport := &http.Transport{
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	if rootCAs != nil {
		transport.TLSClientConfig = &tls.Config{RootCAs: rootCAs}
	}

	dialer := &FingerprintingDialer{proxyURL: proxyURL, fingerprint: fingerprint, rootCAs: rootCAs}

	if proxyURL != nil {
		switch proxyURL.Scheme {
		case "http", "https":
			fingerprinting := fingerprint != FingerprintNone
			transport.Proxy = func(req *http.Request) (*url.URL, error) {
				// the fingerprinting dialer tunnels TLS itself
				if fingerprinting && req.URL.Scheme == "https" {
					return nil, nil
				}
				return proxyURL, nil
			}
		case "socks5":
			transport.DialContext = dialer.dialSOCKS5
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", proxyURL.Scheme)
		}
	}

	if fingerprint != FingerprintNone {
		transport.DialTLSContext = dialer.DialTLSContext
	}

	return transport, nil
}

// FingerprintingDialer opens TLS connections whose ClientHello mimics a
// browser, optionally through an HTTP CONNECT or SOCKS5 proxy.
type FingerprintingDialer struct {
	proxyURL    *url.URL
	fingerprint string
	rootCAs     *x509.CertPool
}

func (d *FingerprintingDialer) helloID() utls.ClientHelloID {
	if id, ok := clientHelloIDs[d.fingerprint]; ok {
		return id
	}
	return randomHelloID()
}

func (d *FingerprintingDialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dialRaw(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	spec, err := utls.UTLSIdToSpec(d.helloID())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS spec: %w", err)
	}
	// net/http speaks HTTP/1.1 over a custom TLS dialer
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: host, RootCAs: d.rootCAs}, utls.HelloCustom)
	if err := uconn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS preset: %w", err)
	}
	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS handshake: %w", err)
	}

	return uconn, nil
}

func (d *FingerprintingDialer) dialRaw(ctx context.Context, network, addr string) (net.Conn, error) {
	if d.proxyURL == nil {
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("direct dial: %w", err)
		}
		return conn, nil
	}

	switch d.proxyURL.Scheme {
	case "http", "https":
		return d.dialConnect(ctx, network, addr)
	case "socks5":
		return d.dialSOCKS5(ctx, network, addr)
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", d.proxyURL.Scheme)
	}
}

func (d *FingerprintingDialer) dialConnect(ctx context.Context, network, addr string) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, proxyAddr(d.proxyURL))
	if err != nil {
		return nil, fmt.Errorf("dial HTTP proxy: %w", err)
	}

	if d.proxyURL.Scheme == "https" {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: d.proxyURL.Hostname(), RootCAs: d.rootCAs})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake with proxy: %w", err)
		}
		conn = tlsConn
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if d.proxyURL.User != nil {
		if password, ok := d.proxyURL.User.Password(); ok {
			req.SetBasicAuth(d.proxyURL.User.Username(), password)
		}
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write CONNECT request: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read CONNECT response: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxy CONNECT failed: %s", resp.Status)
	}

	return conn, nil
}

func (d *FingerprintingDialer) dialSOCKS5(ctx context.Context, network, addr string) (net.Conn, error) {
	var auth *proxy.Auth
	if d.proxyURL.User != nil {
		auth = &proxy.Auth{User: d.proxyURL.User.Username()}
		if password, ok := d.proxyURL.User.Password(); ok {
			auth.Password = password
		}
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddr(d.proxyURL), auth, &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
	}

	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
	}

	conn, err := contextDialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial via SOCKS5 proxy: %w", err)
	}
	return conn, nil
}

// proxyAddr returns host:port of the proxy, filling in the scheme's default
// port the way net/http does.
func proxyAddr(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	port := "80"
	switch u.Scheme {
	case "https":
		port = "443"
	case "socks5":
		port = "1080"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func maskProxyURL(proxyURL string) string {
	if !strings.Contains(proxyURL, "@") {
		return proxyURL
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return "[masked]"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		return strings.Replace(proxyURL, parsedURL.User.String(), username+":****", 1)
	}

	return proxyURL
}

// HTTPClient performs exactly one attempt per request and hands back the
// fully read, decompressed body alongside the response.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

func NewHTTPClient(transport http.RoundTripper, timeout time.Duration, userAgent string) *HTTPClient {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
	}
}

func (c *HTTPClient) Do(req *http.Request) (*http.Response, []byte, error) {
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decompress gzip response: %w", err)
		}
		defer gr.Close()
		reader = gr
	}

	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	return resp, bodyBytes, nil
}
