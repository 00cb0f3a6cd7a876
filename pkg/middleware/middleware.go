// Package middleware provides the HTTP middleware applied by modules.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first added runs outermost.
type Chain struct {
	stack []Middleware
}

// New creates an empty Chain.
func New() *Chain {
	return &Chain{}
}

// Use appends mw to the chain.
func (c *Chain) Use(mw Middleware) {
	c.stack = append(c.stack, mw)
}

// Apply wraps h with every middleware in the chain.
func (c *Chain) Apply(h http.Handler) http.Handler {
	for i := len(c.stack) - 1; i >= 0; i-- {
		h = c.stack[i](h)
	}
	return h
}
