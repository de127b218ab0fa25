package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecoveryEntry is one key of the crash-recovery cache of an editing session.
type RecoveryEntry struct {
	UUID        uuid.UUID      `gorm:"primarykey" json:"uuid"`
	OrderNumber int64          `gorm:"not null;uniqueIndex:idx_recovery_key" json:"order_number"`
	SessionID   string         `gorm:"not null;uniqueIndex:idx_recovery_key" json:"session_id"`
	Key         string         `gorm:"not null;uniqueIndex:idx_recovery_key" json:"key"`
	Value       datatypes.JSON `json:"value"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Keys removed by a successful final save.
var RecoveryCleanKeys = []string{
	"frontJSON", "backJSON", "insideJSON",
	"docReferrer", "orderNumber", "sessionId", "userId",
	"frontThumb", "backThumb", "insideThumb",
}
