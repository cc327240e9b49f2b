package lock

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// goid returns the ID of the calling goroutine by parsing the first line of
// its stack trace ("goroutine 123 [running]:"). The runtime deliberately does
// not expose this; we only use it to attribute lock ownership in misuse
// diagnostics, never for program logic.
func goid() int64 {
	// The first line is all we need; runtime.Stack truncates to fit.
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	return parseGoID(buf[:n])
}

// parseGoID extracts the goroutine ID from a stack trace header.
// Returns 0 if the header does not have the expected shape.
func parseGoID(buf []byte) int64 {
	if !bytes.HasPrefix(buf, goroutinePrefix) {
		return 0
	}
	rest := buf[len(goroutinePrefix):]
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
