// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// TimestampFormat is the human readable timestamp written on every ledger
// row.
const TimestampFormat = `2006-01-02 15:04:05`

// ledgerHeader is the first row of the backing CSV file.
var ledgerHeader = []string{`short_url`, `destination_url`, `status`, `timestamp`}

// Ledger store one [Outcome] per row in an append-only CSV file.
// Rows are never overwritten and every append is flushed to disk before
// returning, so the file always reflects all processed identifiers, even
// after an interrupted run.
type Ledger struct {
	file string
	mtx  sync.Mutex
}

// OpenLedger open the CSV file for appending, creating it with the header
// row if it does not exist yet.
func OpenLedger(file string) (ledger *Ledger, err error) {
	var logp = `OpenLedger`

	ledger = &Ledger{file: file}

	_, err = os.Stat(file)
	if err == nil {
		return ledger, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}

	var fout *os.File
	fout, err = os.OpenFile(file, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}

	var csvWriter = csv.NewWriter(fout)
	err = csvWriter.Write(ledgerHeader)
	if err != nil {
		fout.Close()
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}
	csvWriter.Flush()
	err = csvWriter.Error()
	if err != nil {
		fout.Close()
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}
	err = fout.Close()
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, logp, err)
	}
	return ledger, nil
}

// Append write one outcome at the end of the ledger file and sync it to
// disk.
func (ledger *Ledger) Append(outcome Outcome) (err error) {
	var logp = `Append`

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var fout *os.File
	fout, err = os.OpenFile(ledger.file,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf(`%s: %w`, logp, err)
	}

	var row = []string{
		outcome.ShortUrl,
		outcome.Destination,
		outcome.Status,
		outcome.Timestamp.Format(TimestampFormat),
	}

	var csvWriter = csv.NewWriter(fout)
	err = csvWriter.Write(row)
	if err != nil {
		fout.Close()
		return fmt.Errorf(`%s: %w`, logp, err)
	}
	csvWriter.Flush()
	err = csvWriter.Error()
	if err != nil {
		fout.Close()
		return fmt.Errorf(`%s: %w`, logp, err)
	}
	err = fout.Sync()
	if err != nil {
		fout.Close()
		return fmt.Errorf(`%s: %w`, logp, err)
	}
	err = fout.Close()
	if err != nil {
		return fmt.Errorf(`%s: %w`, logp, err)
	}
	return nil
}

// ResumePoint return the identifier of the last recorded row whose
// identifier length equals length, as it appears in file order.
// Note that "last" here means the most recently appended matching row, not
// the highest ordinal; the caller then advances by one with
// [Sequence.Next].
// A missing ledger file return an empty identifier without error.
// A malformed file return an empty identifier with the error; the caller
// should log it and start from the beginning.
func (ledger *Ledger) ResumePoint(length int) (id string, err error) {
	var logp = `ResumePoint`

	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var fin *os.File
	fin, err = os.Open(ledger.file)
	if err != nil {
		if os.IsNotExist(err) {
			return ``, nil
		}
		return ``, fmt.Errorf(`%s: %w`, logp, err)
	}
	defer fin.Close()

	var csvReader = csv.NewReader(fin)
	csvReader.FieldsPerRecord = -1

	// Skip the header row.
	_, err = csvReader.Read()
	if err != nil {
		if err == io.EOF {
			return ``, nil
		}
		return ``, fmt.Errorf(`%s: %w`, logp, err)
	}

	var row []string
	for {
		row, err = csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ``, fmt.Errorf(`%s: %w`, logp, err)
		}
		if len(row) < 1 {
			continue
		}
		var rowId = identifierOf(row[0])
		if len(rowId) == length {
			id = rowId
		}
	}
	return id, nil
}

// identifierOf return the identifier part of a recorded short URL, the
// segment after the last "/".
func identifierOf(shortUrl string) string {
	var idx = strings.LastIndexByte(shortUrl, '/')
	if idx < 0 {
		return shortUrl
	}
	return shortUrl[idx+1:]
}
