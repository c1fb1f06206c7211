package storefront

import (
	"net"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
)

const (
	// DefaultTimeout applies to connecting, the TLS handshake and waiting for
	// response headers.
	DefaultTimeout = 30 * time.Second

	// CacheSizeMax bounds the response cache.
	CacheSizeMax = 10 << 20
)

// DefaultHTTPClient returns the client used when none is supplied. When
// cacheDir is not empty, responses are cached on disk under it.
func DefaultHTTPClient(cacheDir string) *http.Client {
	var rt http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DefaultTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       DefaultTimeout,
		TLSHandshakeTimeout:   DefaultTimeout,
		ResponseHeaderTimeout: DefaultTimeout,
		ExpectContinueTimeout: time.Second,
	}

	if cacheDir != "" {
		cache := diskcache.NewWithDiskv(diskv.New(diskv.Options{
			BasePath:     cacheDir,
			CacheSizeMax: CacheSizeMax,
		}))
		ct := httpcache.NewTransport(cache)
		ct.Transport = rt
		rt = ct
	}

	return &http.Client{Transport: rt}
}
