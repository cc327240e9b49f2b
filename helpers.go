package jamulsoe

import (
	"maps"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// --- Provider Adapters ---

// FromMap adapts a fixed Metadata map into a Provider. The provider returns a
// copy on every call, so neither the caller's map nor a previous result can
// be mutated through another.
func FromMap(md Metadata) Provider {
	return func() Metadata {
		return maps.Clone(md)
	}
}

// InstanceID returns a provider yielding a process-lifetime UUID under the
// given key. Useful for correlating log records from one process instance.
func InstanceID(key string) Provider {
	id := uuid.NewString()
	return func() Metadata {
		return Metadata{key: id}
	}
}

// Timestamp returns a provider yielding the current wall-clock time in
// RFC3339Nano under the given key, evaluated at each invocation.
func Timestamp(key string) Provider {
	return func() Metadata {
		return Metadata{key: time.Now().Format(time.RFC3339Nano)}
	}
}

// JSON renders the metadata as a JSON object, for sinks that carry context as
// a single structured field.
func (md Metadata) JSON() ([]byte, error) {
	return json.Marshal(md)
}
