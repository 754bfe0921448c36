// Package fetch supplies domain data for a resolved intent. Real
// deployments register HTTP-backed fetchers; the built-in providers
// return representative static data so the pipeline works offline.
package fetch

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"genui/internal/intent"
)

const (
	cacheSize = 512
	cacheTTL  = time.Minute
)

// Fetcher loads the data context fragment for one domain.
type Fetcher interface {
	Fetch(ctx context.Context, utterance string, entities map[string]any) (map[string]any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, utterance string, entities map[string]any) (map[string]any, error)

func (f FetcherFunc) Fetch(ctx context.Context, utterance string, entities map[string]any) (map[string]any, error) {
	return f(ctx, utterance, entities)
}

// Registry maps intents to fetchers with a short-TTL response cache.
type Registry struct {
	fetchers map[intent.Intent]Fetcher
	cache    *expirable.LRU[string, map[string]any]
}

func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[intent.Intent]Fetcher),
		cache:    expirable.NewLRU[string, map[string]any](cacheSize, nil, cacheTTL),
	}
}

// NewDefaultRegistry returns a registry with the static providers bound.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(intent.Weather, FetcherFunc(fetchWeather))
	r.Register(intent.POI, FetcherFunc(fetchPOIs))
	r.Register(intent.RoutePlanning, FetcherFunc(fetchRoute))
	r.Register(intent.Music, FetcherFunc(fetchMusic))
	r.Register(intent.VehicleControl, FetcherFunc(fetchVehicle))
	r.Register(intent.Image, FetcherFunc(fetchImage))
	return r
}

// Register binds a fetcher to a domain, replacing any previous one.
func (r *Registry) Register(domain intent.Intent, f Fetcher) {
	if r == nil || f == nil {
		return
	}
	r.fetchers[domain] = f
}

// FetchFor loads domain data for the resolved intent. Domains without a
// fetcher and fetch failures both yield nil; generation proceeds with
// whatever context the session already has.
func (r *Registry) FetchFor(ctx context.Context, res intent.Result, utterance string) map[string]any {
	if r == nil {
		return nil
	}
	f, ok := r.fetchers[res.Intent]
	if !ok {
		return nil
	}
	key := cacheKey(res, utterance)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}
	data, err := f.Fetch(ctx, utterance, res.Entities)
	if err != nil {
		log.Printf("fetch: %s fetcher failed: %v", res.Intent, err)
		return nil
	}
	if data != nil {
		r.cache.Add(key, data)
	}
	return data
}

func cacheKey(res intent.Result, utterance string) string {
	ent, _ := json.Marshal(res.Entities)
	return string(res.Intent) + "|" + res.Subtype + "|" + string(ent) + "|" + utterance
}
