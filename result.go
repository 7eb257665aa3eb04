// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"time"
)

// Outcome store the result of resolving a single short URL.
// The Destination is either the resolved absolute URL or one of the
// sentinel values like NOT_FOUND or TIMEOUT.
type Outcome struct {
	Timestamp   time.Time `json:"timestamp"`
	ShortUrl    string    `json:"short_url"`
	Destination string    `json:"destination_url"`
	Status      string    `json:"status"`
}

// Result store the final state of a scan.
type Result struct {
	// NextId is the identifier to resume from, to be passed to
	// [ScanOptions.StartFrom] on the next run.
	// It is empty when the sequence has been exhausted or on single
	// resolve mode.
	NextId string `json:"next_id,omitempty"`

	// NextOrdinal is the ordinal of NextId.
	NextOrdinal uint64 `json:"next_ordinal,omitempty"`

	// Processed count all resolved identifiers, including the not-found
	// ones.
	Processed int64 `json:"processed"`

	// Found count the identifiers whose status is neither "404_error"
	// nor "link_not_found".
	Found int64 `json:"found"`

	// Interrupted is true when the scan stopped due to cancellation
	// instead of exhausting the sequence.
	Interrupted bool `json:"interrupted,omitempty"`
}
