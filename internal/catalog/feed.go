package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/config"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

const cacheKey = "catalog:feed"

// Item is one entry of the upstream product feed.
type Item struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Price      int64  `json:"price"`
	Link       string `json:"link"`
	Image      string `json:"image,omitempty"`
	Category   string `json:"category,omitempty"`
	OutOfStock bool   `json:"out_of_stock,omitempty"`
	Hidden     bool   `json:"is_hidden,omitempty"`
}

// Feed serves the supplier's product feed to the mini-app, caching the raw
// upstream payload in Redis. The upstream is scraped infrequently, so a
// cached feed is served for the full TTL even if stale.
type Feed struct {
	url    string
	ttl    time.Duration
	client *http.Client
	redis  *redis.Client
	logger *zap.Logger
}

// NewFeed builds the feed service. A nil redis client disables caching.
func NewFeed(cfg config.CatalogConfig, redisClient *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{
		url:    cfg.FeedURL,
		ttl:    cfg.CacheTTL(),
		client: &http.Client{Timeout: 15 * time.Second},
		redis:  redisClient,
		logger: logger,
	}
}

// Products returns the purchasable feed entries, optionally narrowed to one
// category. Hidden and out-of-stock items never reach the mini-app.
func (f *Feed) Products(ctx context.Context, category string) ([]Item, error) {
	items, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Hidden || item.OutOfStock {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Categories lists the distinct categories of purchasable entries, sorted.
func (f *Feed) Categories(ctx context.Context) ([]string, error) {
	items, err := f.Products(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (f *Feed) load(ctx context.Context) ([]Item, error) {
	if f.url == "" {
		return nil, apperrors.NewPreconditionFailed("catalog feed is not configured", nil)
	}

	if f.redis != nil {
		cached, err := f.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var items []Item
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
			// Poisoned cache entry, drop it and refetch.
			f.redis.Del(ctx, cacheKey)
		} else if !errors.Is(err, redis.Nil) {
			f.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	items, raw, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if f.redis != nil {
		if err := f.redis.Set(ctx, cacheKey, raw, f.ttl).Err(); err != nil {
			f.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func (f *Feed) fetch(ctx context.Context) ([]Item, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(fmt.Errorf("fetch catalog feed: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, apperrors.NewInternalError(fmt.Errorf("catalog feed returned status %d", resp.StatusCode))
	}

	var items []Item
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&items); err != nil {
		return nil, nil, apperrors.NewInternalError(fmt.Errorf("decode catalog feed: %w", err))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return items, raw, nil
}
