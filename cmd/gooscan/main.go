// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"git.sr.ht/~shulhan/gooscan"
)

func main() {
	log.SetFlags(0)

	var (
		optBaseUrl   string
		optOutput    string
		optStartFrom string
		optLength    int
		optDelay     float64
		optTimeout   float64
		optNo404     bool
		optIsVerbose bool
	)

	flag.StringVar(&optBaseUrl, `base-url`, gooscan.DefaultBaseUrl,
		`Base URL of the shortener to enumerate.`)

	flag.IntVar(&optLength, `length`, gooscan.DefaultLength,
		`Identifier length to enumerate.`)

	flag.StringVar(&optOutput, `output`, gooscan.DefaultOutputFile,
		`Output CSV file.`)

	flag.Float64Var(&optDelay, `delay`, 1.0,
		`Delay between requests in seconds.`)

	flag.Float64Var(&optTimeout, `timeout`, 10.0,
		`Timeout for single request in seconds.`)

	flag.StringVar(&optStartFrom, `start-from`, ``,
		`Resume from specific identifier, overriding auto resume.`)

	flag.BoolVar(&optNo404, `no-404`, false,
		`Do not record 404 or not-found results.`)

	flag.BoolVar(&optIsVerbose, `verbose`, false,
		`Print additional information while running.`)

	flag.Parse()

	var opts = gooscan.ScanOptions{
		BaseUrl:      optBaseUrl,
		Length:       optLength,
		OutputFile:   optOutput,
		Delay:        time.Duration(optDelay * float64(time.Second)),
		Timeout:      time.Duration(optTimeout * float64(time.Second)),
		StartFrom:    optStartFrom,
		SkipNotFound: optNo404,
		IsVerbose:    optIsVerbose,
	}

	var cmd = strings.ToLower(flag.Arg(0))
	switch cmd {
	case `scan`:
		runScan(opts)
		return

	case `resolve`:
		opts.TestUrl = flag.Arg(1)
		if opts.TestUrl == `` {
			log.Printf(`Missing argument URL to be resolved.`)
			break
		}
		runScan(opts)
		return

	case `help`:
		log.Println(gooscan.GoEmbedReadme)
		return

	case `version`:
		log.Println(gooscan.Version)
		return

	default:
		log.Printf(`Missing or invalid command %q`, cmd)
	}

	log.Printf(`Run "gooscan help" for usage.`)
	os.Exit(1)
}

func runScan(opts gooscan.ScanOptions) {
	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result, err = gooscan.Scan(ctx, opts)
	if err != nil {
		log.Fatal(err.Error())
	}

	var resultJson []byte
	resultJson, err = json.MarshalIndent(result, ``, `  `)
	if err != nil {
		log.Fatal(err.Error())
	}
	fmt.Printf("%s\n", resultJson)
}
