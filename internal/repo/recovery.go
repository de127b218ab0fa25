package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lexedit-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecoveryRepo persists the crash-recovery cache of editing sessions.
type RecoveryRepo struct {
	db *gorm.DB
}

type RecoveryRepoInterface interface {
	Set(ctx context.Context, orderNumber int64, sessionID, key, value string) error
	Get(ctx context.Context, orderNumber int64, sessionID, key string) (string, bool, error)
	Remove(ctx context.Context, orderNumber int64, sessionID, key string) error
	Clean(ctx context.Context, orderNumber int64, sessionID string) error
	Keys(ctx context.Context, orderNumber int64, sessionID string) ([]string, error)
}

func NewRecoveryRepository(db *gorm.DB) RecoveryRepoInterface {
	return &RecoveryRepo{db: db}
}

// Set upserts key for the session.
func (r *RecoveryRepo) Set(ctx context.Context, orderNumber int64, sessionID, key, value string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	now := time.Now()
	entry := models.RecoveryEntry{
		UUID:        uuid.New(),
		OrderNumber: orderNumber,
		SessionID:   sessionID,
		Key:         key,
		Value:       datatypes.JSON(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_number"}, {Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the stored value; the bool is false when the key is absent.
func (r *RecoveryRepo) Get(ctx context.Context, orderNumber int64, sessionID, key string) (string, bool, error) {
	var entry models.RecoveryEntry
	err := r.db.WithContext(ctx).
		Where("order_number = ? AND session_id = ? AND key = ?", orderNumber, sessionID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	var value string
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		return "", false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RecoveryRepo) Remove(ctx context.Context, orderNumber int64, sessionID, key string) error {
	return r.db.WithContext(ctx).
		Where("order_number = ? AND session_id = ? AND key = ?", orderNumber, sessionID, key).
		Delete(&models.RecoveryEntry{}).Error
}

// Clean removes the keys a finished order no longer needs. Other keys of
// the session are kept.
func (r *RecoveryRepo) Clean(ctx context.Context, orderNumber int64, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("order_number = ? AND session_id = ? AND key IN ?", orderNumber, sessionID, models.RecoveryCleanKeys).
		Delete(&models.RecoveryEntry{}).Error
}

func (r *RecoveryRepo) Keys(ctx context.Context, orderNumber int64, sessionID string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.RecoveryEntry{}).
		Where("order_number = ? AND session_id = ?", orderNumber, sessionID).
		Order("key").
		Pluck("key", &keys).Error
	return keys, err
}

// SessionRecovery scopes a RecoveryRepoInterface to one order and session.
type SessionRecovery struct {
	Repo        RecoveryRepoInterface
	OrderNumber int64
	SessionID   string
}

func (s SessionRecovery) Set(ctx context.Context, key, value string) error {
	return s.Repo.Set(ctx, s.OrderNumber, s.SessionID, key, value)
}

func (s SessionRecovery) Get(ctx context.Context, key string) (string, bool, error) {
	return s.Repo.Get(ctx, s.OrderNumber, s.SessionID, key)
}

func (s SessionRecovery) Clean(ctx context.Context) error {
	return s.Repo.Clean(ctx, s.OrderNumber, s.SessionID)
}
