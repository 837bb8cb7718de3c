// Package flags persists small key/value records as JSON objects on disk.
//
// Flag files signal state between process runs (for example that a run has
// finished). Write is a plain read-merge-write and offers no protection
// against concurrent writers; WriteLocked serializes writers that share the
// same path through an advisory lock file.
package flags
