// uptimectl
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package query

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/caas-team/uptimectl/internal/logger"
)

const (
	DefaultSize = 256
	DefaultTTL  = 30 * time.Second
)

// Options configures the Store
type Options struct {
	// Size is the maximum number of cached entries
	Size int
	// TTL is the time an entry stays valid
	TTL time.Duration
}

// Store caches backend reads under hierarchical keys such as
// "projects/urls/{project}". Cached values are shared between readers and
// must not be modified.
type Store struct {
	lru   *expirable.LRU[string, any]
	group singleflight.Group
	// mu guards gen. gen is bumped by every invalidation so that loads
	// started before it neither store their result nor get joined.
	mu      sync.Mutex
	gen     uint64
	metrics metrics
}

// NewStore creates a new Store. Zero options fall back to the defaults.
func NewStore(opts Options) *Store {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Store{
		lru:     expirable.NewLRU[string, any](opts.Size, nil, opts.TTL),
		metrics: newMetrics(),
	}
}

// Invalidate removes the entry stored under prefix and all entries below it.
// It returns the number of removed entries.
func (s *Store) Invalidate(ctx context.Context, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	n := 0
	for _, k := range s.lru.Keys() {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			if s.lru.Remove(k) {
				n++
			}
		}
	}
	logger.FromContext(ctx).Debug("Invalidated cache entries", "prefix", prefix, "count", n)
	return n
}

// Len returns the number of cached entries
func (s *Store) Len() int {
	return s.lru.Len()
}

// GetMetricCollectors returns the metric collectors of the store
func (s *Store) GetMetricCollectors() []prometheus.Collector {
	return s.metrics.collectors()
}

type Callback[T any] func(ctx context.Context) (T, error)

type LoadOptions struct {
	// DisableLRU skips the cache for lookup and storage
	DisableLRU bool
}

var defaultOpts LoadOptions

// load returns the value cached under key or loads it with cb.
// Concurrent misses for the same key share one call of cb. The call is not
// canceled when a caller gives up, every caller only waits as long as its
// own ctx allows.
func load[T any](ctx context.Context, s *Store, key string, opts *LoadOptions, cb Callback[T]) (T, error) {
	var zero T
	if opts == nil {
		opts = &defaultOpts
	}
	kind := kindOf(key)

	if !opts.DisableLRU {
		if v, ok := s.lru.Get(key); ok {
			s.metrics.hits.WithLabelValues(kind).Inc()
			return v.(T), nil
		}
	}
	s.metrics.misses.WithLabelValues(kind).Inc()

	gen := s.generation()
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatUint(gen, 10)+":"+key, func() (any, error) {
		if !opts.DisableLRU {
			if v, ok := s.lru.Get(key); ok {
				return v, nil
			}
		}
		value, err := cb(shared)
		if err != nil {
			return nil, err
		}
		if !opts.DisableLRU && !s.add(key, value, gen) {
			logger.FromContext(shared).Debug("Dropping query result loaded before invalidation", "key", key)
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		logger.FromContext(ctx).Debug("Loaded query", "key", key, "shared", res.Shared)
		return res.Val.(T), nil
	}
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// add stores value unless an invalidation happened since gen was read
func (s *Store) add(key string, value any, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.lru.Add(key, value)
	return true
}

// kindOf returns the first segment of a key
func kindOf(key string) string {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i]
	}
	return key
}
