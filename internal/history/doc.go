// Package history persists the record of answer cards already handed to the
// correction pipeline.
//
// The on-disk representation is a single JSON file rewritten in full on every
// commit. Ids are only ever appended, never removed, so the processed set is
// monotonically non-decreasing across restarts. Loading tolerates a missing
// or corrupt file (the store starts empty and logs a warning), and a failed
// write never aborts the caller: the in-memory snapshot stays authoritative
// until the next successful write, so at most one cycle of bookkeeping can be
// lost to persistent disk trouble while unprocessed items simply retry.
package history
