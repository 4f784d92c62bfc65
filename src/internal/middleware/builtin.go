// FILE: logflume/src/internal/middleware/builtin.go
package middleware

import (
	"logflume/src/internal/core"

	"golang.org/x/time/rate"
)

// Fields returns a middleware that stamps static fields onto entry meta.
// Existing keys are overwritten.
func Fields(extra core.Fields) Func {
	return func(entry *core.Entry, next func()) {
		for k, v := range extra {
			entry.Meta[k] = v
		}
		next()
	}
}

// Source returns a middleware that records the explicit origin of the entry
// in its meta. Callers that want file and line information pass it here or
// through context fields; there is no stack inspection.
func Source(name string) Func {
	return func(entry *core.Entry, next func()) {
		entry.Meta["source"] = core.String(name)
		next()
	}
}

// MinLevel returns a middleware that drops entries below the given level by
// short-circuiting the chain.
func MinLevel(level core.Level) Func {
	return func(entry *core.Entry, next func()) {
		if entry.Level < level {
			return
		}
		next()
	}
}

// RateLimit returns a middleware that drops entries exceeding the given
// sustained rate with the given burst. Dropped entries never reach a sink.
func RateLimit(perSecond float64, burst int) Func {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(entry *core.Entry, next func()) {
		if !limiter.Allow() {
			return
		}
		next()
	}
}
