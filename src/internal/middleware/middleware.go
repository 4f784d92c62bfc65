// FILE: logflume/src/internal/middleware/middleware.go
package middleware

import (
	"logflume/src/internal/core"
)

// Func is a single entry-processing step. It may mutate the entry in place
// and must invoke next to continue the chain; omitting the call
// short-circuits the chain and the entry is never delivered to any sink.
type Func func(entry *core.Entry, next func())

// Chain is an ordered sequence of middleware. Execution order is strictly
// registration order, each middleware runs at most once per entry.
type Chain struct {
	funcs []Func
}

// Append adds a middleware to the end of the chain. Registration is not
// deduplicated; the same middleware registered twice runs twice.
func (c *Chain) Append(f Func) {
	c.funcs = append(c.funcs, f)
}

// Len returns the number of registered middleware.
func (c *Chain) Len() int {
	return len(c.funcs)
}

// Clone returns an independent copy of the chain. Appending to the clone
// does not affect the original, and vice versa.
func (c *Chain) Clone() *Chain {
	clone := &Chain{funcs: make([]Func, len(c.funcs))}
	copy(clone.funcs, c.funcs)
	return clone
}

// Run threads the entry through the chain with an index cursor. Each
// continuation step advances the cursor; once the cursor passes the end,
// done is invoked. A middleware that never calls its continuation stops the
// chain permanently for this entry.
func (c *Chain) Run(entry *core.Entry, done func()) {
	index := -1

	var next func()
	next = func() {
		index++
		if index < len(c.funcs) {
			c.funcs[index](entry, next)
			return
		}
		done()
	}

	next()
}
