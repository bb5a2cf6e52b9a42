package generator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rpavlik/kanboard-documentation/internal/cache"
	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/discovery"
	"github.com/rpavlik/kanboard-documentation/internal/extractor"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/markdown"
	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
	"github.com/rpavlik/kanboard-documentation/internal/stub"
)

// Generator turns procedure documents into stub lines and an OpenRPC
// document.
type Generator struct {
	opts Options
}

// New creates a new generator
func New(opts Options) (*Generator, error) {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.Dialect == nil {
		d, err := stub.ForName("", "")
		if err != nil {
			return nil, err
		}
		opts.Dialect = d
	}
	if opts.Strategy == nil {
		opts.Strategy = heuristics.Default()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.Discard
	}
	return &Generator{opts: opts}, nil
}

// Extract runs a single document through the tokenizer and the extractor.
func (g *Generator) Extract(key string, src []byte) (*extractor.Result, error) {
	tokens, fm, err := markdown.NewTokenizer().Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	return extractor.Run(key, extractor.Options{
		BaseURL:  g.opts.BaseURL,
		Title:    fm.Title,
		Caser:    g.opts.Caser,
		Strategy: g.opts.Strategy,
		Declarer: g.opts.Dialect,
	}, tokens)
}

// Generate processes docs and merges their results in the given order.
// Diagnostics are replayed to the reporter only after every document
// succeeded; on error nothing is reported and no output is returned.
func (g *Generator) Generate(ctx context.Context, docs []discovery.Document) (*Output, error) {
	results := make([]*extractor.Result, len(docs))
	keys := make([]string, len(docs))
	hits := make([]bool, len(docs))

	var (
		mu        sync.Mutex
		processed int
	)
	done := func(doc discovery.Document) {
		if g.opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		processed++
		g.opts.Progress(processed, len(docs), doc.Key)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)

	for i, doc := range docs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, key, hit, err := g.processDocument(doc)
			if err != nil {
				return err
			}
			results[i], keys[i], hits[i] = res, key, hit
			done(doc)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := g.merge(results)
	for _, hit := range hits {
		if hit {
			out.Stats.CacheHits++
		}
	}

	if g.opts.Cache != nil {
		keep := make(map[string]bool, len(keys))
		for _, k := range keys {
			keep[k] = true
		}
		if _, err := g.opts.Cache.Prune(keep); err != nil {
			return nil, fmt.Errorf("prune cache: %w", err)
		}
	}

	for _, res := range results {
		for _, d := range res.Diagnostics {
			g.opts.Reporter.Report(d)
		}
	}

	return out, nil
}

func (g *Generator) processDocument(doc discovery.Document) (*extractor.Result, string, bool, error) {
	src, err := discovery.ReadFile(doc)
	if err != nil {
		return nil, "", false, err
	}

	var key string
	if g.opts.Cache != nil {
		key = cache.Key(doc.Key, src, g.opts.Fingerprint)
		res, ok, err := g.opts.Cache.Get(key)
		if err != nil {
			return nil, "", false, fmt.Errorf("%s: %w", doc.Key, err)
		}
		if ok {
			return res, key, true, nil
		}
	}

	res, err := g.Extract(doc.Key, src)
	if err != nil {
		return nil, "", false, err
	}

	if g.opts.Cache != nil {
		if err := g.opts.Cache.Put(key, res); err != nil {
			return nil, "", false, fmt.Errorf("%s: %w", doc.Key, err)
		}
	}
	return res, key, false, nil
}

// merge concatenates per-document results in order. Every document gets a
// section marker, even one that declares no methods.
func (g *Generator) merge(results []*extractor.Result) *Output {
	out := &Output{
		Document:  openrpc.NewDocument(g.opts.Title, g.opts.Version, g.opts.Description),
		StubLines: []string{},
		Results:   results,
	}

	for _, res := range results {
		out.StubLines = append(out.StubLines, g.opts.Dialect.Section(res.Key)...)
		out.StubLines = append(out.StubLines, res.StubLines...)
		out.Document.Methods = append(out.Document.Methods, res.Methods...)

		out.Stats.Documents++
		out.Stats.Methods += len(res.Methods)
		out.Stats.Diagnostics += len(res.Diagnostics)
		out.Stats.Dropped += res.Dropped
	}
	return out
}

// Render encodes both artifacts in memory.
func (g *Generator) Render(out *Output, format string) (stubs, document []byte, err error) {
	stubs, err = g.opts.Dialect.Render(out.StubLines)
	if err != nil {
		return nil, nil, fmt.Errorf("render stubs: %w", err)
	}
	document, err = openrpc.Marshal(out.Document, format)
	if err != nil {
		return nil, nil, fmt.Errorf("render document: %w", err)
	}
	return stubs, document, nil
}
