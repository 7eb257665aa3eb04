// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseUrl is the base URL of the shortener being enumerated.
const DefaultBaseUrl = `https://goo.gl`

// DefaultLength is the identifier length being enumerated when
// [ScanOptions.Length] is not set.
const DefaultLength = 6

// DefaultOutputFile is the ledger file when [ScanOptions.OutputFile] is not
// set.
const DefaultOutputFile = `goo.gl_urls.csv`

// DefaultTimeout is the timeout for a single request when
// [ScanOptions.Timeout] is not set.
const DefaultTimeout = 10 * time.Second

// ScanOptions define the options for Scan.
type ScanOptions struct {
	// BaseUrl of the shortener.
	// Candidate URLs are built as "<BaseUrl>/<identifier>".
	// Default to [DefaultBaseUrl].
	BaseUrl string

	// OutputFile where outcomes are recorded, also the source of the
	// resume point.
	// Default to [DefaultOutputFile].
	OutputFile string

	// StartFrom resume the scan from this identifier, overriding the
	// automatic resume from OutputFile.
	// Its length must equal Length.
	StartFrom string

	// TestUrl, when set, resolve only this single URL and record the
	// outcome, without enumerating the sequence.
	TestUrl string

	// Length of identifiers to enumerate, between 1 and [MaxLength].
	// Default to [DefaultLength].
	Length int

	// Delay to sleep after each completed request.
	Delay time.Duration

	// Timeout for a single request.
	// Default to [DefaultTimeout].
	Timeout time.Duration

	// SkipNotFound do not record outcomes with status "404_error" or
	// "link_not_found".
	SkipNotFound bool

	// IsVerbose print each request and additional information while
	// running.
	IsVerbose bool
}

func (opts *ScanOptions) init(seq *Sequence) (err error) {
	var logp = `ScanOptions`

	if opts.BaseUrl == `` {
		opts.BaseUrl = DefaultBaseUrl
	}
	opts.BaseUrl = strings.TrimSuffix(opts.BaseUrl, `/`)

	var baseUrl *url.URL
	baseUrl, err = url.Parse(opts.BaseUrl)
	if err != nil || baseUrl.Scheme == `` || baseUrl.Host == `` {
		return fmt.Errorf(`%s: invalid base URL %q`, logp, opts.BaseUrl)
	}

	if opts.OutputFile == `` {
		opts.OutputFile = DefaultOutputFile
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Delay < 0 {
		return fmt.Errorf(`%s: negative delay %s`, logp, opts.Delay)
	}

	if opts.StartFrom != `` {
		_, err = seq.Encode(opts.StartFrom)
		if err != nil {
			return fmt.Errorf(`%s: invalid start-from: %w`, logp, err)
		}
	}
	return nil
}
