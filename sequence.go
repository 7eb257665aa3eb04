// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Alphabet is the fixed set of symbols that build an identifier, in
// enumeration order.
// The position of a symbol in Alphabet is its base-62 digit value.
const Alphabet = `abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789`

// MaxLength is the maximum identifier length, bounded so that the ordinal
// of the last identifier still fits in uint64.
const MaxLength = 10

var (
	// ErrInvalidSymbol returned when identifier contains symbol outside
	// of [Alphabet].
	ErrInvalidSymbol = errors.New(`invalid symbol`)

	// ErrLengthMismatch returned when identifier length does not match
	// the [Sequence] length.
	ErrLengthMismatch = errors.New(`length mismatch`)

	// ErrOutOfRange returned when ordinal is greater than the ordinal of
	// the last identifier in the [Sequence].
	ErrOutOfRange = errors.New(`ordinal out of range`)
)

// Sequence generate all identifiers of a fixed length over [Alphabet], in
// ascending ordinal order.
// The ordinal of an identifier is its base-62 value, most significant
// symbol first, so Encode and Decode are inverse of each other.
type Sequence struct {
	length int
	max    uint64
}

// NewSequence create a Sequence for identifiers of the given length.
func NewSequence(length int) (seq *Sequence, err error) {
	var logp = `NewSequence`

	if length < 1 || length > MaxLength {
		return nil, fmt.Errorf(`%s: length must be between 1 and %d, got %d`,
			logp, MaxLength, length)
	}

	seq = &Sequence{length: length}

	var x int
	seq.max = 1
	for x = 0; x < length; x++ {
		seq.max *= uint64(len(Alphabet))
	}
	seq.max--

	return seq, nil
}

// Length return the identifier length generated by this Sequence.
func (seq *Sequence) Length() int {
	return seq.length
}

// Max return the ordinal of the last identifier, which is
// len(Alphabet)^length - 1.
func (seq *Sequence) Max() uint64 {
	return seq.max
}

// Size return the total number of identifiers in the Sequence.
func (seq *Sequence) Size() uint64 {
	return seq.max + 1
}

// Encode return the ordinal of identifier id.
// It return [ErrLengthMismatch] if the length of id does not match the
// Sequence length, or [ErrInvalidSymbol] if id contains a symbol outside
// of [Alphabet].
func (seq *Sequence) Encode(id string) (ordinal uint64, err error) {
	var logp = `Encode`

	if len(id) != seq.length {
		return 0, fmt.Errorf(`%s %q: %w: expecting length %d, got %d`,
			logp, id, ErrLengthMismatch, seq.length, len(id))
	}

	var x int
	for x = 0; x < len(id); x++ {
		var digit = strings.IndexByte(Alphabet, id[x])
		if digit < 0 {
			return 0, fmt.Errorf(`%s %q: %w: %q`,
				logp, id, ErrInvalidSymbol, id[x])
		}
		ordinal = ordinal*uint64(len(Alphabet)) + uint64(digit)
	}
	return ordinal, nil
}

// Decode return the identifier at the given ordinal, padded on the left
// with the first symbol of [Alphabet].
// It return [ErrOutOfRange] if ordinal is greater than [Sequence.Max].
func (seq *Sequence) Decode(ordinal uint64) (id string, err error) {
	var logp = `Decode`

	if ordinal > seq.max {
		return ``, fmt.Errorf(`%s %d: %w: maximum is %d`,
			logp, ordinal, ErrOutOfRange, seq.max)
	}

	var raw = make([]byte, seq.length)
	var x int
	for x = seq.length - 1; x >= 0; x-- {
		raw[x] = Alphabet[ordinal%uint64(len(Alphabet))]
		ordinal /= uint64(len(Alphabet))
	}
	return string(raw), nil
}

// Next return the identifier that follows id in enumeration order.
// It return an empty string, without error, when id is the last identifier
// in the Sequence.
func (seq *Sequence) Next(id string) (next string, err error) {
	var logp = `Next`

	var ordinal uint64
	ordinal, err = seq.Encode(id)
	if err != nil {
		return ``, fmt.Errorf(`%s: %w`, logp, err)
	}
	if ordinal == seq.max {
		return ``, nil
	}

	next, err = seq.Decode(ordinal + 1)
	if err != nil {
		return ``, fmt.Errorf(`%s: %w`, logp, err)
	}
	return next, nil
}

// From iterate all identifiers starting at the given ordinal up to the last
// one, in ascending order, yielding the ordinal and its identifier.
// Identifiers are generated lazily, one at a time, so resuming from a high
// ordinal does not materialize any of the preceding combinations.
func (seq *Sequence) From(ordinal uint64) iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		var x uint64
		for x = ordinal; x <= seq.max; x++ {
			var id, err = seq.Decode(x)
			if err != nil {
				return
			}
			if !yield(x, id) {
				return
			}
		}
	}
}
