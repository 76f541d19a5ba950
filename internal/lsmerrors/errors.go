// Package lsmerrors collects the sentinel errors surfaced across the engine's
// layers, in the same flat, errors.New-per-concern style the rest of the
// codebase uses for its own package-local sentinels.
package lsmerrors

import "errors"

var (
	// ErrKeyEmpty is returned by Put/Delete when the caller supplies an
	// empty key.
	ErrKeyEmpty = errors.New("lsmkv: key must not be empty")

	// ErrValueEmpty is returned by Put when the caller supplies an empty
	// value. Deletion is expressed by calling Delete, not by writing an
	// empty value directly.
	ErrValueEmpty = errors.New("lsmkv: value must not be empty")

	// ErrBlockSize is the panic value of block.NewBuilder (and so of
	// sstable.NewBuilder) when given a zero block target size.
	ErrBlockSize = errors.New("lsmkv: target block size must be positive")

	// ErrFormat indicates an on-disk block or SST was structurally
	// malformed: truncated, with an offset or length pointing outside the
	// buffer it indexes.
	ErrFormat = errors.New("lsmkv: malformed on-disk format")

	// ErrClosed describes an operation on a closed engine. LsmStorage has
	// no Close method, and no operation returns this error.
	ErrClosed = errors.New("lsmkv: storage is closed")

	// ErrNotFound describes a missing key. No operation returns it: a
	// Get caller sees an ok=false result instead.
	ErrNotFound = errors.New("lsmkv: not found")
)
