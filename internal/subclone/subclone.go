// Package subclone simulates the digestion and ligation of DNA records.
//
// Each record in a bin is cut with a set of restriction enzymes. The fragments
// become edges in a graph whose nodes are the overhangs left by the cuts, and
// every cycle in that graph is a plasmid that could form from a ligation.
// Plasmids that only re-form one of the inputs are discarded.
package subclone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/Imperial-iGEM/synbio/internal/subclone")

// Assembly is a set of fragments that ligate into one or more plasmids
type Assembly struct {
	// Plasmids that form from the fragments. Usually one, but different
	// orderings of the same fragments are kept as separate plasmids
	Plasmids []*Record `json:"plasmids"`

	// Fragments that went into the plasmids, in the order of the first plasmid
	Fragments []*Fragment `json:"fragments"`

	// Key identifies the set of fragments, independent of their order
	Key string `json:"-"`
}

// Design is a source of bins: lists of records that might combine. Bins are
// subcloned while the design is still being read, so a yielded bin must not
// be reused
type Design interface {
	Bins() iter.Seq[[]*Record]
}

// settings for a subclone run
type settings struct {
	include         []string
	minCount        int
	maxCycles       int
	maxCombinations int
	workers         int
	cache           *DigestCache
	logger          *log.Logger
	metrics         *Metrics
}

// Option configures a subclone run
type Option func(*settings)

// WithInclude only keeps assemblies with a fragment that has a feature whose
// type or qualifier values contain one of the keywords (case-insensitive)
func WithInclude(keywords ...string) Option {
	return func(s *settings) {
		s.include = append(s.include, keywords...)
	}
}

// WithMinCount only keeps assemblies of at least count fragments. Counts <= 0 keep everything
func WithMinCount(count int) Option {
	return func(s *settings) {
		s.minCount = count
	}
}

// WithMaxCycles fails a bin with ErrBudgetExceeded when it has more than
// limit cycles. Limits <= 0 are unbounded
func WithMaxCycles(limit int) Option {
	return func(s *settings) {
		s.maxCycles = limit
	}
}

// WithMaxCombinations fails a bin with ErrBudgetExceeded when more than
// limit fragment combinations are checked. Limits <= 0 are unbounded
func WithMaxCombinations(limit int) Option {
	return func(s *settings) {
		s.maxCombinations = limit
	}
}

// WithWorkers sets the number of bins subcloned at once by SubcloneMany
func WithWorkers(workers int) Option {
	return func(s *settings) {
		s.workers = workers
	}
}

// WithCache digests records through a cache shared with other runs
func WithCache(cache *DigestCache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// WithLogger logs each bin's progress to logger
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics records counts of the work done to m
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{workers: 1}
	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		s.cache = NewDigestCache()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// GoldenGate simulates a Golden Gate assembly of each bin with BsaI and BpiI
func GoldenGate(ctx context.Context, d Design, opts ...Option) ([]Assembly, error) {
	enzymes, err := EnzymesByName("BsaI", "BpiI")
	if err != nil {
		return nil, err
	}
	return SubcloneMany(ctx, d, enzymes, opts...)
}

// SubcloneMany subclones each bin of a design and returns the assemblies of
// every bin. An assembly is only returned once, for the first bin that
// forms it, even if later bins form the same set of fragments.
//
// A bin that fails, eg by exceeding a work budget, doesn't stop the others:
// the assemblies of the successful bins are returned along with a *BinError
// for each failure.
func SubcloneMany(ctx context.Context, d Design, enzymes []Enzyme, opts ...Option) ([]Assembly, error) {
	s := newSettings(opts)

	ctx, span := tracer.Start(ctx, "subclone.SubcloneMany")
	defer span.End()

	// bins are read from the design as workers free up, so only their results are kept
	type binResult struct {
		assemblies []Assembly
		err        error
	}
	var results []*binResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for bin := range d.Bins() {
		if gctx.Err() != nil {
			break
		}

		i, result := len(results), &binResult{}
		results = append(results, result)
		g.Go(func() error {
			assemblies, err := s.subclone(gctx, bin, enzymes)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				result.err = &BinError{Bin: i, Err: err}
				s.logger.Warn("failed to subclone bin", "bin", i, "err", err)
				return nil
			}
			result.assemblies = assemblies
			return nil
		})
	}
	span.SetAttributes(attribute.Int("bins", len(results)))
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// don't return a set of fragments more than once
	seenKeys := make(map[string]bool)
	var all []Assembly
	var binErrs []error
	for _, result := range results {
		if result.err != nil {
			binErrs = append(binErrs, result.err)
		}
		for _, a := range result.assemblies {
			if seenKeys[a.Key] {
				continue
			}
			seenKeys[a.Key] = true
			all = append(all, a)
		}
	}

	err := errors.Join(binErrs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("assemblies", len(all)))
	s.logger.Debug("subcloned design", "bins", len(results), "assemblies", len(all))
	return all, err
}

// Subclone digests a single bin of records and returns the assemblies that
// could form from a ligation of their fragments. A bin that can't form
// anything new returns no assemblies and no error.
func Subclone(ctx context.Context, records []*Record, enzymes []Enzyme, opts ...Option) ([]Assembly, error) {
	return newSettings(opts).subclone(ctx, records, enzymes)
}

func (s *settings) subclone(ctx context.Context, records []*Record, enzymes []Enzyme) (assemblies []Assembly, err error) {
	ctx, span := tracer.Start(ctx, "subclone.Subclone")
	start := time.Now()
	defer func() {
		s.metrics.bin(start, err)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	g := newGraph(records, newDigester(enzymes, s.cache, s.metrics))
	order := recordOrder(records)
	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("overhangs", len(g.nodes)),
		attribute.Int("fragments", g.edgeCount()),
	)

	var keys []string
	groups := make(map[string]*Assembly)
	cycleCount, combinationCount := 0, 0
	for cycle := range g.cycles() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cycleCount++
		s.metrics.cycle()
		if s.maxCycles > 0 && cycleCount > s.maxCycles {
			return nil, fmt.Errorf("%w: more than %d cycles", ErrBudgetExceeded, s.maxCycles)
		}
		if s.minCount > 0 && len(cycle) < s.minCount {
			continue
		}

		for fragments := range g.combinations(cycle) {
			combinationCount++
			s.metrics.combination()
			if s.maxCombinations > 0 && combinationCount > s.maxCombinations {
				return nil, fmt.Errorf("%w: more than %d fragment combinations", ErrBudgetExceeded, s.maxCombinations)
			}

			// make sure it's not just a re-ligation of an input or earlier plasmid
			if g.seen.contains(joinSeqs(fragments)) {
				continue
			}

			if len(s.include) > 0 && !anyHasFeature(fragments, s.include) {
				continue
			}

			plasmid, rotated, key := assemble(fragments, order)
			g.seen.add(plasmid.Seq)
			s.metrics.plasmid()

			group, ok := groups[key]
			if !ok {
				group = &Assembly{Fragments: rotated, Key: key}
				groups[key] = group
				keys = append(keys, key)
			}
			group.Plasmids = append(group.Plasmids, plasmid)
		}
	}

	for _, key := range keys {
		assemblies = append(assemblies, *groups[key])
	}

	s.logger.Debug(
		"subcloned bin",
		"records", len(records),
		"overhangs", len(g.nodes),
		"fragments", g.edgeCount(),
		"cycles", cycleCount,
		"combinations", combinationCount,
		"assemblies", len(assemblies),
	)
	return assemblies, nil
}

// anyHasFeature returns whether any of the fragments has a feature matching a keyword
func anyHasFeature(fragments []*Fragment, keywords []string) bool {
	for _, f := range fragments {
		if f.hasFeature(keywords) {
			return true
		}
	}
	return false
}
