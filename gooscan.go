// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

// Package gooscan enumerate short URL identifiers on the retired goo.gl
// link shortener, resolve each of them to its destination, and record the
// results into an append-only CSV file that also provides the resume point
// for the next run.
package gooscan

import (
	_ "embed"
)

// Version of gooscan program and module.
var Version = `0.1.0`

// GoEmbedReadme embed the README for showing the usage of program.
//
//go:embed README
var GoEmbedReadme string
