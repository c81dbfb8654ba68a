package aggregator

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"metaseek/internal/cache"
	"metaseek/internal/engine"
	"metaseek/internal/httpclient"
	"metaseek/internal/model"
)

// Options configures an Aggregator. Cache is optional; a nil cache means
// every search hits the upstreams.
type Options struct {
	Cache      *cache.Cache
	Logger     *logrus.Logger
	SafeSearch uint8
}

// Aggregator fans a query out to every registered engine concurrently and
// merges the per-engine result sets into one, unioning engine tags when
// several engines return the same URL.
type Aggregator struct {
	engines    []engine.SearchEngine
	client     *httpclient.Client
	cache      *cache.Cache
	log        *logrus.Logger
	safeSearch uint8
}

func New(engines []engine.SearchEngine, client *httpclient.Client, opts Options) *Aggregator {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{
		engines:    engines,
		client:     client,
		cache:      opts.Cache,
		log:        log,
		safeSearch: opts.SafeSearch,
	}
}

// Search runs the query on every engine and returns the merged results.
// A single engine failing never fails the whole search: an explicit empty
// result set is a clean zero contribution, other failures are logged with
// their taxonomy kind and skipped. Search returns an error only when every
// engine failed with a real error.
//
// Merge order follows the engine registry order, so result ordering is
// deterministic for a given set of upstream responses.
func (a *Aggregator) Search(ctx context.Context, query string, page uint32, userAgent string) (*model.ResultSet, error) {
	sets := make([]*model.ResultSet, len(a.engines))
	errs := make([]error, len(a.engines))

	var wg sync.WaitGroup
	for i, eng := range a.engines {
		wg.Add(1)
		go func(i int, eng engine.SearchEngine) {
			defer wg.Done()
			sets[i], errs[i] = a.searchOne(ctx, eng, query, page, userAgent)
		}(i, eng)
	}
	wg.Wait()

	merged := model.NewResultSet()
	var failed int
	var firstErr error
	for i, eng := range a.engines {
		if err := errs[i]; err != nil {
			if engine.IsKind(err, engine.EmptyResultSet) {
				a.log.WithField("engine", eng.Name()).Debug("engine reported no results")
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			failed++
			a.log.WithError(err).WithField("engine", eng.Name()).Warn("engine failed")
			continue
		}
		merged.Merge(sets[i])
	}

	if failed > 0 && failed == len(a.engines) {
		return nil, fmt.Errorf("aggregator: all %d engines failed: %w", failed, firstErr)
	}
	return merged, nil
}

func (a *Aggregator) searchOne(ctx context.Context, eng engine.SearchEngine, query string, page uint32, userAgent string) (*model.ResultSet, error) {
	if a.cache != nil {
		if set, ok := a.cache.Get(ctx, eng.Name(), query, page); ok {
			a.log.WithField("engine", eng.Name()).Debug("cache hit")
			return set, nil
		}
	}

	set, err := eng.Results(ctx, query, page, userAgent, a.client, a.safeSearch)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, eng.Name(), query, page, set); err != nil {
			a.log.WithError(err).WithField("engine", eng.Name()).Debug("cache store failed")
		}
	}
	return set, nil
}
