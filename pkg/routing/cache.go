package routing

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the tracer used for route table construction spans.
// The tracer resolves from the global OpenTelemetry tracer provider.
const tracerName = "veldt.routing"

// RouteKey identifies the handler set a table was built from: the root
// application assembly plus any additional assemblies supplying routable
// components. Keys are comparable values; two keys built from the same
// inputs are equal regardless of the order extras were given in.
type RouteKey struct {
	// App identifies the root application assembly.
	App string

	// extras is the canonicalized additional assembly set.
	extras string
}

// NewRouteKey builds a RouteKey. Extras are sorted and deduplicated so the
// key does not depend on declaration order.
func NewRouteKey(app string, extras []string) RouteKey {
	if len(extras) == 0 {
		return RouteKey{App: app}
	}
	sorted := make([]string, len(extras))
	copy(sorted, extras)
	sort.Strings(sorted)

	uniq := sorted[:0]
	for i, e := range sorted {
		if i == 0 || e != sorted[i-1] {
			uniq = append(uniq, e)
		}
	}
	return RouteKey{App: app, extras: strings.Join(uniq, "\x00")}
}

func (k RouteKey) String() string {
	if k.extras == "" {
		return k.App
	}
	return k.App + "+" + strings.ReplaceAll(k.extras, "\x00", ",")
}

// Cache memoizes built route tables per RouteKey.
//
// Tables are built lazily on first request per key and cleared wholesale by
// Clear; there is no partial eviction. The build itself runs outside the
// lock, so concurrent callers for the same unseen key may race to build
// independently; the first insert wins and losers adopt the stored table.
// That duplicates work but never produces an inconsistent result, because
// identical inputs build identical tables.
type Cache struct {
	mu     sync.RWMutex
	tables map[RouteKey]*RouteTable

	logger *slog.Logger
	opts   []BuildOption
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger sets the logger for cache diagnostics.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithBuildOptions sets the options every cached build runs with.
func WithBuildOptions(opts ...BuildOption) CacheOption {
	return func(c *Cache) {
		c.opts = opts
	}
}

// NewCache creates an empty route table cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		tables: make(map[RouteKey]*RouteTable),
		logger: slog.Default().With("component", "routing"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrBuild returns the cached table for key, building it from source on
// first request. Build errors are returned to the caller and never cached;
// the next request for the same key builds again.
func (c *Cache) GetOrBuild(ctx context.Context, key RouteKey, source DeclarationSource) (*RouteTable, error) {
	c.mu.RLock()
	table, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		recordCacheHit()
		return table, nil
	}
	recordCacheMiss()

	_, span := otel.Tracer(tracerName).Start(ctx, "routing.build",
		trace.WithAttributes(attribute.String("routing.key", key.String())))
	defer span.End()

	decls, err := source.Declarations()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	table, err = Build(decls, c.opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("routing.entries", table.Len()))
	span.SetStatus(codes.Ok, "")

	c.mu.Lock()
	if existing, ok := c.tables[key]; ok {
		// Another builder won the race; its table is equivalent.
		table = existing
	} else {
		c.tables[key] = table
	}
	c.mu.Unlock()

	c.logger.Debug("route table cached", "key", key.String(), "entries", table.Len())
	return table, nil
}

// Clear drops every cached table. Hosts call this when the handler set
// changes, e.g. on hot reload of application assemblies.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.tables = make(map[RouteKey]*RouteTable)
	c.mu.Unlock()

	recordCacheInvalidation()
	c.logger.Debug("route table cache cleared")
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// defaultCache is the process-wide cache used by the package-level helpers.
var defaultCache = NewCache()

// GetOrBuild returns the table for key from the process-wide cache.
func GetOrBuild(ctx context.Context, key RouteKey, source DeclarationSource) (*RouteTable, error) {
	return defaultCache.GetOrBuild(ctx, key, source)
}

// ClearCache clears the process-wide cache.
func ClearCache() {
	defaultCache.Clear()
}
