// Package jamulsoe provides logging-support primitives: contextual metadata
// providers with deterministic merging, and (under pkg/lock) the locking
// primitives that protect logger state.
//
// A Provider is a pure function producing key/value Metadata on demand, used
// by a logging facade to attach context to every record. Providers compose
// with Multiplex, which merges an ordered sequence with last-writer-wins
// conflict resolution. For metadata sources that are too slow to evaluate on
// every record, CachedProvider keeps a snapshot refreshed in the background.
package jamulsoe

// Metadata is contextual key/value data attached to log records.
type Metadata map[string]string

// Provider produces Metadata on demand. A Provider must be safe for
// concurrent use; the functions in this package never mutate the maps a
// Provider returns, but other consumers might, so a Provider should return a
// fresh or effectively immutable map on each call.
//
// Providers are invoked synchronously on the logging path and are expected to
// return quickly without blocking.
type Provider func() Metadata

// Multiplex combines an ordered sequence of providers into one. Invoking the
// returned provider evaluates each input in order and merges the results; if
// two providers supply the same key, the later provider wins. Providers
// returning empty metadata contribute nothing.
//
// Calling Multiplex with no providers is a usage violation and panics: an
// empty sequence has no meaningful merged result, and silently returning an
// always-empty provider would hide the bug in the calling code.
func Multiplex(providers ...Provider) Provider {
	if len(providers) == 0 {
		panic("jamulsoe: Multiplex requires at least one provider")
	}
	return func() Metadata {
		merged := make(Metadata)
		for _, p := range providers {
			for k, v := range p() {
				merged[k] = v
			}
		}
		return merged
	}
}
