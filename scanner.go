// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Scan enumerate all identifiers of the configured length, resolve each
// candidate URL, and record every outcome into the ledger.
//
// Without [ScanOptions.StartFrom], the scan resume from the successor of
// the last recorded identifier of matching length; a missing or unreadable
// ledger start the scan from the first identifier.
// With [ScanOptions.TestUrl], only that single URL is resolved and
// recorded.
//
// Cancelling the ctx stop the scan between iterations; the identifier to
// resume from is reported in [Result.NextId].
func Scan(ctx context.Context, opts ScanOptions) (result *Result, err error) {
	var logp = `Scan`
	var scanner *Scanner

	scanner, err = newScanner(opts)
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}

	result, err = scanner.run(ctx)
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}
	return result, nil
}

// Scanner own all of the mutable scan state: the HTTP session, the ledger,
// and the processed and found counters.
type Scanner struct {
	seq    *Sequence
	ledger *Ledger
	httpc  *http.Client
	log    *log.Logger

	opts ScanOptions

	processed int64
	found     int64
}

func newScanner(opts ScanOptions) (scanner *Scanner, err error) {
	if opts.Length == 0 {
		opts.Length = DefaultLength
	}

	var seq *Sequence
	seq, err = NewSequence(opts.Length)
	if err != nil {
		return nil, err
	}

	err = opts.init(seq)
	if err != nil {
		return nil, err
	}

	var ledger *Ledger
	ledger, err = OpenLedger(opts.OutputFile)
	if err != nil {
		return nil, err
	}

	scanner = &Scanner{
		seq:    seq,
		ledger: ledger,
		httpc:  newHttpClient(opts.Timeout, false),
		log:    log.New(os.Stderr, ``, log.LstdFlags),
		opts:   opts,
	}
	return scanner, nil
}

func (scanner *Scanner) run(ctx context.Context) (result *Result, err error) {
	if scanner.opts.TestUrl != `` {
		return scanner.runSingle()
	}

	var start uint64
	start, err = scanner.startOrdinal()
	if err != nil {
		return nil, err
	}

	if scanner.opts.IsVerbose {
		scanner.log.Printf("scan: length=%d total=%d start=%d\n",
			scanner.seq.Length(), scanner.seq.Size(), start)
	}

	result = &Result{}

	var ordinal uint64
	var id string
	for ordinal, id = range scanner.seq.From(start) {
		if ctx.Err() != nil {
			result.Interrupted = true
			result.NextId = id
			result.NextOrdinal = ordinal
			break
		}

		var shortUrl = scanner.opts.BaseUrl + `/` + id
		var destination, status = scanner.resolve(shortUrl)

		err = scanner.record(shortUrl, destination, status)
		if err != nil {
			return nil, err
		}

		if scanner.processed%100 == 0 {
			scanner.log.Printf("progress: processed=%d found=%d current=%s (ordinal=%d)\n",
				scanner.processed, scanner.found, id, ordinal)
		}

		if !scanner.sleep(ctx) {
			// Cancelled during the delay; the current identifier
			// is already recorded, resume from its successor.
			result.Interrupted = true
			result.NextId, _ = scanner.seq.Next(id)
			if result.NextId != `` {
				result.NextOrdinal = ordinal + 1
			}
			break
		}
	}

	result.Processed = scanner.processed
	result.Found = scanner.found

	if result.Interrupted {
		scanner.log.Printf("scan interrupted: processed=%d found=%d resume from %q (ordinal=%d)\n",
			result.Processed, result.Found, result.NextId,
			result.NextOrdinal)
	}
	return result, nil
}

// runSingle resolve and record exactly one URL, bypassing the sequence and
// the resume logic.
func (scanner *Scanner) runSingle() (result *Result, err error) {
	var destination, status = scanner.resolve(scanner.opts.TestUrl)

	scanner.log.Printf("resolve: %s -> %s (%s)\n",
		scanner.opts.TestUrl, destination, status)

	err = scanner.record(scanner.opts.TestUrl, destination, status)
	if err != nil {
		return nil, err
	}
	return &Result{
		Processed: scanner.processed,
		Found:     scanner.found,
	}, nil
}

// startOrdinal compute where the scan begins: the explicit StartFrom
// override, otherwise the successor of the last recorded identifier of
// matching length, otherwise zero.
func (scanner *Scanner) startOrdinal() (start uint64, err error) {
	var startFrom = scanner.opts.StartFrom

	if startFrom == `` {
		var last string
		last, err = scanner.ledger.ResumePoint(scanner.seq.Length())
		if err != nil {
			scanner.log.Printf("startOrdinal: unreadable ledger, starting from beginning: %s\n", err)
			return 0, nil
		}
		if last == `` {
			return 0, nil
		}

		startFrom, err = scanner.seq.Next(last)
		if err != nil {
			scanner.log.Printf("startOrdinal: unusable resume point %q, starting from beginning: %s\n", last, err)
			return 0, nil
		}
		if startFrom == `` {
			// The last recorded identifier was the final one;
			// restart from the beginning.
			return 0, nil
		}
		if scanner.opts.IsVerbose {
			scanner.log.Printf("startOrdinal: resuming after %q from %q\n",
				last, startFrom)
		}
	}

	start, err = scanner.seq.Encode(startFrom)
	if err != nil {
		return 0, err
	}
	return start, nil
}

// record count the outcome and append it to the ledger, honoring the
// SkipNotFound option.
// Counters advance even when the append is skipped.
func (scanner *Scanner) record(shortUrl, destination, status string) (err error) {
	scanner.processed++

	var isNotFound = status == StatusNotFound404 ||
		status == StatusLinkNotFound
	if !isNotFound {
		scanner.found++
		scanner.log.Printf("+ Found: %s -> %s (%s)\n",
			shortUrl, destination, status)
	}

	if isNotFound && scanner.opts.SkipNotFound {
		return nil
	}

	return scanner.ledger.Append(Outcome{
		Timestamp:   time.Now(),
		ShortUrl:    shortUrl,
		Destination: destination,
		Status:      status,
	})
}

// sleep wait for the configured delay or until ctx is cancelled.
// It return false on cancellation.
func (scanner *Scanner) sleep(ctx context.Context) bool {
	if scanner.opts.Delay <= 0 {
		return ctx.Err() == nil
	}
	var timer = time.NewTimer(scanner.opts.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
