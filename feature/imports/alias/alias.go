package alias

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Alias maps a client's free-text SKU to a canonical SKU.
type Alias struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ClientID   uint       `gorm:"uniqueIndex:idx_alias_client_text;not null" json:"client_id"`
	AliasText  string     `gorm:"uniqueIndex:idx_alias_client_text;size:191;not null" json:"alias_text"`
	SKU        string     `gorm:"column:sku;size:64;not null" json:"sku"`
	Confidence float64    `gorm:"not null;default:1" json:"confidence"`
	UsageCount int        `gorm:"not null;default:0" json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Alias) TableName() string { return "sku_aliases" }

// Normalize is the canonical form of alias text: upper-cased, trimmed, with
// inner whitespace collapsed.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToUpper(text)), " ")
}

// Store persists aliases.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates an alias store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Lookup returns the best alias for text, or nil when none exists.
func (s *Store) Lookup(ctx context.Context, clientID uint, text string) (*Alias, error) {
	key := Normalize(text)
	if key == "" {
		return nil, nil
	}

	var a Alias
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND alias_text = ?", clientID, key).
		Order("confidence DESC").Order("usage_count DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup alias: %w", err)
	}
	return &a, nil
}

// Preload loads every alias of a client keyed by normalized text.
// When several rows share a key the best ranked one wins.
func (s *Store) Preload(ctx context.Context, clientID uint) (map[string]Alias, error) {
	var rows []Alias
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("confidence DESC").Order("usage_count DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to preload aliases: %w", err)
	}

	out := make(map[string]Alias, len(rows))
	for _, a := range rows {
		key := Normalize(a.AliasText)
		if _, seen := out[key]; !seen {
			out[key] = a
		}
	}
	return out, nil
}

// Touch records alias hits: usage grows by the hit count and last-used is refreshed.
func (s *Store) Touch(ctx context.Context, hits map[uint]int) error {
	if len(hits) == 0 {
		return nil
	}
	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, n := range hits {
			err := tx.Model(&Alias{}).Where("id = ?", id).Updates(map[string]any{
				"usage_count":  gorm.Expr("usage_count + ?", n),
				"last_used_at": now,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to touch alias %d: %w", id, err)
			}
		}
		return nil
	})
}

// Upsert learns text -> sku for a client. It reports whether a new alias was created.
// An existing alias is repointed to sku and its usage bumped; the last decision wins.
func (s *Store) Upsert(ctx context.Context, clientID uint, text, sku string) (created bool, err error) {
	key := Normalize(text)
	if key == "" {
		return false, errors.New("alias text is empty")
	}
	db := s.db.WithContext(ctx)
	now := s.now()

	var existing Alias
	err = db.Where("client_id = ? AND alias_text = ?", clientID, key).First(&existing).Error
	switch {
	case err == nil:
		return false, s.update(db, clientID, key, sku, now)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, fmt.Errorf("failed to lookup alias: %w", err)
	}

	a := Alias{
		ClientID:   clientID,
		AliasText:  key,
		SKU:        sku,
		Confidence: 1,
		UsageCount: 1,
		LastUsedAt: &now,
	}
	if err := db.Create(&a).Error; err != nil {
		if !IsDuplicate(err) {
			return false, fmt.Errorf("failed to create alias: %w", err)
		}
		// Lost the race against a concurrent create.
		return false, s.update(db, clientID, key, sku, now)
	}
	return true, nil
}

func (s *Store) update(db *gorm.DB, clientID uint, key, sku string, now time.Time) error {
	err := db.Model(&Alias{}).
		Where("client_id = ? AND alias_text = ?", clientID, key).
		Updates(map[string]any{
			"sku":          sku,
			"confidence":   1,
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update alias: %w", err)
	}
	return nil
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
