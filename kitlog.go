package jamulsoe

import (
	"sort"

	"github.com/go-kit/log"
)

// WithProvider returns a logger that evaluates p when a record is logged and
// prepends the resulting metadata as key/value pairs. Pairs are emitted in
// key order so output is deterministic. Keys supplied at the log call site
// appear after the provider's pairs and therefore win in sinks that
// de-duplicate by keeping the last occurrence.
func WithProvider(logger log.Logger, p Provider) log.Logger {
	return &providerLogger{next: logger, provider: p}
}

type providerLogger struct {
	next     log.Logger
	provider Provider
}

func (l *providerLogger) Log(keyvals ...interface{}) error {
	md := l.provider()
	if len(md) == 0 {
		return l.next.Log(keyvals...)
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kvs := make([]interface{}, 0, 2*len(md)+len(keyvals))
	for _, k := range keys {
		kvs = append(kvs, k, md[k])
	}
	kvs = append(kvs, keyvals...)
	return l.next.Log(kvs...)
}
