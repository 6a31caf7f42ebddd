package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type clientConfig struct {
	client    *http.Client
	timeout   time.Duration
	proxyURL  *url.URL
	tlsConfig *tls.Config
}

type Option func(*clientConfig)

func newClientConfig() *clientConfig {
	return &clientConfig{}
}

// WithHTTPClient replaces the underlying client entirely. All other
// options are ignored when this one is used.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.client = client
	}
}

// WithTimeout bounds every request end to end. By default no timeout is
// enforced - the Timeout outcome only classifies a status code the server
// already reported.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithProxy routes all requests through an HTTP proxy.
func WithProxy(host string, port uint16) Option {
	return func(c *clientConfig) {
		c.proxyURL = &url.URL{
			Scheme: "http",
			Host:   fmt.Sprintf("%s:%d", host, port),
		}
	}
}

// WithTLSConfig sets the TLS configuration used for https nodes.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *clientConfig) {
		c.tlsConfig = tlsConfig
	}
}

func (c *clientConfig) buildClient() *http.Client {
	if c.client != nil {
		return c.client
	}

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	if c.proxyURL != nil {
		httpTransport.Proxy = http.ProxyURL(c.proxyURL)
	}
	if c.tlsConfig != nil {
		httpTransport.TLSClientConfig = c.tlsConfig
	}

	return &http.Client{
		Timeout:   c.timeout,
		Transport: httpTransport,
	}
}
