package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	// ErrClientNotFound is returned when a client reference matches no client.
	ErrClientNotFound = errors.New("client not found")
	// ErrAmbiguousClient is returned when a name matches more than one client.
	ErrAmbiguousClient = errors.New("client reference is ambiguous")
)

const snapshotKey = "catalog"

// Snapshot is an immutable view of the catalog used by bulk matching.
type Snapshot struct {
	// Products is indexed by canonical SKU.
	Products map[string]Product
	// SKUs holds every canonical SKU, sorted.
	SKUs []string
	// Built is when the snapshot was loaded.
	Built time.Time
	// TTL is how long the snapshot may be reused.
	TTL time.Duration
}

// IsExpired returns true if this snapshot has outlived its TTL.
func (s *Snapshot) IsExpired() bool {
	if s.TTL == 0 {
		return true
	}
	return time.Since(s.Built) > s.TTL
}

// Has reports whether sku is a catalog product.
func (s *Snapshot) Has(sku string) bool {
	_, ok := s.Products[sku]
	return ok
}

// Catalog provides read-only lookups over clients and products.
type Catalog struct {
	db  *gorm.DB
	ttl time.Duration

	mu   sync.RWMutex
	snap *Snapshot
	sf   singleflight.Group
}

// New creates a catalog. A zero ttl disables snapshot caching.
func New(db *gorm.DB, ttl time.Duration) *Catalog {
	return &Catalog{db: db, ttl: ttl}
}

// ResolveClient finds the single client named by ref.
// A numeric ref is tried as an id first, then as a name.
func (c *Catalog) ResolveClient(ctx context.Context, ref string) (Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Client{}, fmt.Errorf("%w: empty reference", ErrClientNotFound)
	}

	db := c.db.WithContext(ctx)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		var client Client
		err := db.First(&client, id).Error
		if err == nil {
			return client, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Client{}, fmt.Errorf("failed to load client: %w", err)
		}
	}

	var clients []Client
	if err := db.Where("LOWER(name) = ?", strings.ToLower(ref)).Limit(2).Find(&clients).Error; err != nil {
		return Client{}, fmt.Errorf("failed to resolve client: %w", err)
	}
	switch len(clients) {
	case 0:
		return Client{}, fmt.Errorf("%w: %q", ErrClientNotFound, ref)
	case 1:
		return clients[0], nil
	default:
		return Client{}, fmt.Errorf("%w: %q", ErrAmbiguousClient, ref)
	}
}

// Snapshot returns the cached catalog snapshot, loading it when missing or expired.
// Concurrent loads are collapsed into one query.
func (c *Catalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && !snap.IsExpired() {
		return snap, nil
	}

	result, err, _ := c.sf.Do(snapshotKey, func() (interface{}, error) {
		c.mu.RLock()
		snap := c.snap
		c.mu.RUnlock()
		if snap != nil && !snap.IsExpired() {
			return snap, nil
		}

		fresh, err := c.load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.snap = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// Invalidate drops the cached snapshot.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *Catalog) load(ctx context.Context) (*Snapshot, error) {
	var products []Product
	if err := c.db.WithContext(ctx).Preload("Components", orderComponents).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	snap := &Snapshot{
		Products: make(map[string]Product, len(products)),
		SKUs:     make([]string, 0, len(products)),
		Built:    time.Now(),
		TTL:      c.ttl,
	}
	for _, p := range products {
		snap.Products[p.SKU] = p
		snap.SKUs = append(snap.SKUs, p.SKU)
	}
	sort.Strings(snap.SKUs)
	return snap, nil
}

// LoadProducts reads the current state of the given products inside tx,
// bypassing the snapshot. Unknown SKUs are absent from the result.
func LoadProducts(tx *gorm.DB, skus []string) (map[string]Product, error) {
	out := make(map[string]Product, len(skus))
	if len(skus) == 0 {
		return out, nil
	}

	var products []Product
	if err := tx.Preload("Components", orderComponents).Where("sku IN ?", skus).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range products {
		out[p.SKU] = p
	}
	return out, nil
}

func orderComponents(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}
