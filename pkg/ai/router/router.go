package router

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ModelSize is the logical quality tier a caller asks for.
type ModelSize string

const (
	Small  ModelSize = "SMALL"
	Medium ModelSize = "MEDIUM"
	Large  ModelSize = "LARGE"
)

// Sizes lists every tier. The router must resolve all of them.
var Sizes = []ModelSize{Small, Medium, Large}

var ErrIncompleteTier = errors.New("model tier is not fully configured")

// Route is the concrete model pair behind a tier.
type Route struct {
	Primary  string
	Fallback string
	Timeout  time.Duration
}

// Router maps tiers to routes. It is immutable after construction.
type Router struct {
	routes map[ModelSize]Route
}

// New builds a router from tier-name keyed tables. Every tier in Sizes needs a
// primary and a fallback model; timeouts default to 30s when absent.
func New(models map[string][2]string, timeouts map[string]time.Duration) (*Router, error) {
	routes := make(map[ModelSize]Route, len(Sizes))
	for _, size := range Sizes {
		pair, ok := models[string(size)]
		if !ok || strings.TrimSpace(pair[0]) == "" || strings.TrimSpace(pair[1]) == "" {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteTier, size)
		}
		timeout := timeouts[string(size)]
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		routes[size] = Route{Primary: pair[0], Fallback: pair[1], Timeout: timeout}
	}
	return &Router{routes: routes}, nil
}

// Resolve returns the route of a tier. An unknown tier is a programming error.
func (r *Router) Resolve(size ModelSize) Route {
	route, ok := r.routes[size]
	if !ok {
		panic(fmt.Sprintf("router: undefined model size %q", size))
	}
	return route
}

// ParseSize accepts case-insensitive tier names.
func ParseSize(s string) (ModelSize, error) {
	size := ModelSize(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Sizes {
		if size == known {
			return size, nil
		}
	}
	return "", fmt.Errorf("unknown model size %q", s)
}
