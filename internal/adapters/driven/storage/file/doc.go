// Package file provides filesystem-backed implementations of the
// artifact and marking sheet stores.
//
// Artifacts live under one directory per pipeline stage, one JSON
// file per key. Marking sheets live under one directory per course
// offering and are rewritten atomically via a temp file and rename.
package file
