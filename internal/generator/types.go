package generator

import (
	"github.com/rpavlik/kanboard-documentation/internal/cache"
	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/extractor"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/naming"
	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
	"github.com/rpavlik/kanboard-documentation/internal/stub"
)

// ProgressFunc is called once per finished document.
type ProgressFunc func(processed, total int, current string)

// Options configures a Generator
type Options struct {
	Title       string
	Version     string
	Description string
	BaseURL     string

	Jobs     int
	Dialect  stub.Dialect
	Strategy heuristics.Strategy
	Caser    naming.Caser
	Reporter diag.Reporter
	Progress ProgressFunc

	// Cache is optional. Fingerprint must change whenever an option that
	// affects per-document results changes.
	Cache       *cache.Store
	Fingerprint string
}

// Stats summarizes a run
type Stats struct {
	Documents   int
	Methods     int
	Diagnostics int
	CacheHits   int
	Dropped     int
}

// Output holds the merged results of a run
type Output struct {
	Document  *openrpc.Document
	StubLines []string
	Results   []*extractor.Result
	Stats     Stats
}
