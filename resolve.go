// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"git.sr.ht/~shulhan/gooscan/internal"
)

// Status tags, one per outcome classification.
// Non 2xx/3xx/404 responses are tagged "http_error_<code>", built with
// [statusHttpError].
const (
	StatusTimeout            = `timeout`
	StatusConnectionError    = `connection_error`
	StatusRequestException   = `request_exception`
	StatusDirectRedirect     = `direct_redirect`
	StatusRedirectNoLocation = `redirect_without_location`
	StatusNotFound404        = `404_error`
	StatusLinkNotFound       = `link_not_found`
	StatusFromWarning        = `resolved_from_warning`
	StatusWarningNoExtract   = `warning_page_parse_failed`
	StatusDirect200          = `direct_200`
)

// Destination sentinels recorded when no real URL could be resolved.
const (
	SentinelTimeout          = `TIMEOUT`
	SentinelConnectionError  = `CONNECTION_ERROR`
	SentinelNotFound         = `NOT_FOUND`
	SentinelNoLocation       = `NO_LOCATION_HEADER`
	SentinelWarningNoExtract = `WARNING_PAGE_NO_EXTRACT`
)

// Marker phrases on a 200 response body.
const (
	markerLinkNotFound  = `Dynamic Link Not Found`
	markerNotFoundLower = `not found`
	markerWarningWork   = `This link will no longer work`
	markerWarningFunc   = `goo.gl links will no longer function`
)

// userAgent is a descriptive browser-like agent; the shortener serves an
// error page to unknown agents.
const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36`

// warningCookie assert that the shortener's deprecation prompt has already
// been dismissed.
var warningCookie = &http.Cookie{
	Name:  `googol_warning_dismissed`,
	Value: `true`,
}

// maxBodySize limit how much of a response body is read for
// classification.
const maxBodySize = 8 * 1024 * 1024

func statusHttpError(code int) string {
	return fmt.Sprintf(`http_error_%d`, code)
}

func newHttpClient(timeout time.Duration, insecure bool) (httpc *http.Client) {
	var netDial = &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}
	var tlsConfig = &tls.Config{
		InsecureSkipVerify: insecure,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:           netDial.DialContext,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
			TLSClientConfig:       tlsConfig,
			TLSHandshakeTimeout:   10 * time.Second,
		},
		// The classifier must observe 3xx responses itself, so
		// redirects are not followed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// resolve fetch one short URL and classify the exchange into a destination
// and a status tag.
// It never return an error: transport failures are classified like any
// other outcome so that a single bad request cannot stop the scan.
func (scanner *Scanner) resolve(shortUrl string) (destination, status string) {
	if scanner.opts.IsVerbose {
		scanner.log.Printf("resolve: GET %s\n", shortUrl)
	}

	var httpReq, err = http.NewRequest(http.MethodGet, shortUrl, nil)
	if err != nil {
		return `REQUEST_ERROR: ` + err.Error(), StatusRequestException
	}
	httpReq.Header.Set(`User-Agent`, userAgent)
	httpReq.AddCookie(warningCookie)

	var httpResp *http.Response
	httpResp, err = scanner.httpc.Do(httpReq)
	if err != nil {
		return classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	var rawBody []byte
	rawBody, err = io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return classifyTransportError(err)
	}

	return scanner.classify(httpResp, string(rawBody))
}

// classifyTransportError map a failed exchange to its sentinel and status
// tag: timeout, connection failure, or any other transport error.
func classifyTransportError(err error) (destination, status string) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return SentinelTimeout, StatusTimeout
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return SentinelConnectionError, StatusConnectionError
	}

	return `REQUEST_ERROR: ` + err.Error(), StatusRequestException
}

// classify apply the classification rules in priority order; only the
// first matching rule applies.
func (scanner *Scanner) classify(httpResp *http.Response, body string) (
	destination, status string,
) {
	switch httpResp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusSeeOther, http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		var location = httpResp.Header.Get(`Location`)
		if location == `` {
			return SentinelNoLocation, StatusRedirectNoLocation
		}
		return location, StatusDirectRedirect

	case http.StatusNotFound:
		return SentinelNotFound, StatusNotFound404

	case http.StatusOK:
		if strings.Contains(body, markerLinkNotFound) ||
			strings.Contains(strings.ToLower(body), markerNotFoundLower) {
			return SentinelNotFound, StatusLinkNotFound
		}

		if strings.Contains(body, markerWarningWork) ||
			strings.Contains(body, markerWarningFunc) {
			var redirectUrl = extractRedirect(body)
			if redirectUrl != `` {
				return redirectUrl, StatusFromWarning
			}
			scanner.saveWarningPage(httpResp.Request.URL.String(), body)
			return SentinelWarningNoExtract, StatusWarningNoExtract
		}

		return httpResp.Request.URL.String(), StatusDirect200
	}

	return fmt.Sprintf(`HTTP_%d`, httpResp.StatusCode),
		statusHttpError(httpResp.StatusCode)
}

// saveWarningPage keep the raw page of a failed extraction for offline
// inspection, only when running verbose.
func (scanner *Scanner) saveWarningPage(shortUrl, body string) {
	if !scanner.opts.IsVerbose {
		return
	}
	var pathFile, err = internal.SaveDebugPage([]byte(body))
	if err != nil {
		scanner.log.Printf("saveWarningPage %s: %s\n", shortUrl, err)
		return
	}
	scanner.log.Printf("saveWarningPage %s: saved to %s\n", shortUrl, pathFile)
}
