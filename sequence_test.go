// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"errors"
	"testing"

	"git.sr.ht/~shulhan/pakakeh.go/lib/test"
)

func TestNewSequence(t *testing.T) {
	type testCase struct {
		expError string
		length   int
		expSize  uint64
	}

	var listCase = []testCase{{
		length:   1,
		expSize:  62,
	}, {
		length:   2,
		expSize:  3844,
	}, {
		length:   6,
		expSize:  56800235584,
	}, {
		length:   0,
		expError: `NewSequence: length must be between 1 and 10, got 0`,
	}, {
		length:   11,
		expError: `NewSequence: length must be between 1 and 10, got 11`,
	}}

	for _, tcase := range listCase {
		var seq, err = NewSequence(tcase.length)
		if err != nil {
			test.Assert(t, `NewSequence error`, tcase.expError, err.Error())
			continue
		}
		test.Assert(t, `Size`, tcase.expSize, seq.Size())
		test.Assert(t, `Max`, tcase.expSize-1, seq.Max())
	}
}

func TestSequenceEncode(t *testing.T) {
	type testCase struct {
		expError error
		id       string
		exp      uint64
	}

	var seq, err = NewSequence(6)
	if err != nil {
		t.Fatal(err)
	}

	var listCase = []testCase{{
		id:  `aaaaaa`,
		exp: 0,
	}, {
		id:  `aaaaab`,
		exp: 1,
	}, {
		id:  `aaaaba`,
		exp: 62,
	}, {
		id:  `aaaaa9`,
		exp: 61,
	}, {
		id:  `999999`,
		exp: seq.Max(),
	}, {
		id:       `aaa`,
		expError: ErrLengthMismatch,
	}, {
		id:       `aaaa-a`,
		expError: ErrInvalidSymbol,
	}}

	for _, tcase := range listCase {
		var got uint64
		got, err = seq.Encode(tcase.id)
		if tcase.expError != nil {
			if !errors.Is(err, tcase.expError) {
				t.Fatalf(`Encode %q: expecting %v, got %v`,
					tcase.id, tcase.expError, err)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		test.Assert(t, `Encode `+tcase.id, tcase.exp, got)

		// Decode must be the inverse of Encode.
		var gotId string
		gotId, err = seq.Decode(got)
		if err != nil {
			t.Fatal(err)
		}
		test.Assert(t, `Decode`, tcase.id, gotId)
	}
}

func TestSequenceEncode_monotonic(t *testing.T) {
	var seq, err = NewSequence(6)
	if err != nil {
		t.Fatal(err)
	}

	// Enumeration order follows the alphabet: lowercase, uppercase,
	// then digits.
	var listId = []string{
		`aaaaaa`, `aaaaab`, `aaaaaz`, `aaaaaA`, `aaaaaZ`, `aaaaa0`,
		`aaaaa9`, `aaaaba`, `abcdef`, `999998`, `999999`,
	}

	var prev uint64
	var x int
	for x = 1; x < len(listId); x++ {
		var before, after uint64
		before, err = seq.Encode(listId[x-1])
		if err != nil {
			t.Fatal(err)
		}
		after, err = seq.Encode(listId[x])
		if err != nil {
			t.Fatal(err)
		}
		if after <= before {
			t.Fatalf(`Encode not monotonic: %q=%d then %q=%d`,
				listId[x-1], before, listId[x], after)
		}
		prev = after
	}
	test.Assert(t, `last ordinal`, seq.Max(), prev)
}

func TestSequenceDecode_outOfRange(t *testing.T) {
	var seq, err = NewSequence(2)
	if err != nil {
		t.Fatal(err)
	}

	_, err = seq.Decode(seq.Max() + 1)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf(`expecting %v, got %v`, ErrOutOfRange, err)
	}
}

func TestSequenceNext(t *testing.T) {
	type testCase struct {
		id  string
		exp string
	}

	var seq, err = NewSequence(2)
	if err != nil {
		t.Fatal(err)
	}

	var listCase = []testCase{{
		id:  `aa`,
		exp: `ab`,
	}, {
		id:  `az`,
		exp: `aA`,
	}, {
		id:  `aZ`,
		exp: `a0`,
	}, {
		id:  `a9`,
		exp: `ba`,
	}, {
		id:  `99`,
		exp: ``,
	}}

	for _, tcase := range listCase {
		var got string
		got, err = seq.Next(tcase.id)
		if err != nil {
			t.Fatal(err)
		}
		test.Assert(t, `Next `+tcase.id, tcase.exp, got)
	}
}

// Walking the whole length-2 sequence with Next must visit every
// identifier exactly once and end on the maximal one.
func TestSequenceNext_walk(t *testing.T) {
	var seq, err = NewSequence(2)
	if err != nil {
		t.Fatal(err)
	}

	var id = `aa`
	var steps uint64
	for {
		var next string
		next, err = seq.Next(id)
		if err != nil {
			t.Fatal(err)
		}
		if next == `` {
			break
		}
		id = next
		steps++
	}
	test.Assert(t, `steps`, seq.Max(), steps)
	test.Assert(t, `last identifier`, `99`, id)
}

func TestSequenceFrom(t *testing.T) {
	var seq, err = NewSequence(2)
	if err != nil {
		t.Fatal(err)
	}

	var listGot []string
	var id string
	for _, id = range seq.From(seq.Max() - 2) {
		listGot = append(listGot, id)
	}
	test.Assert(t, `From near end`, []string{`97`, `98`, `99`}, listGot)

	listGot = nil
	var ordinal uint64
	for ordinal, id = range seq.From(0) {
		if ordinal == 3 {
			break
		}
		listGot = append(listGot, id)
	}
	test.Assert(t, `From beginning`, []string{`aa`, `ab`, `ac`}, listGot)
}
