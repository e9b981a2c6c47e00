package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteSnapshot is the key-value row holding one session's serialized quote.
type QuoteSnapshot struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the storage table.
func (QuoteSnapshot) TableName() string {
	return "quote_snapshots"
}

// DatabaseStore persists quote snapshots in a relational key-value table for
// deployments that run without Redis.
type DatabaseStore struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewDatabaseStore wires the snapshot store onto the shared GORM connection
// and ensures the backing table exists.
func NewDatabaseStore(db *gorm.DB, logg *logger.Logger) (*DatabaseStore, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	if err := db.AutoMigrate(&QuoteSnapshot{}); err != nil {
		return nil, err
	}
	return &DatabaseStore{db: db, logg: logg}, nil
}

func (s *DatabaseStore) Load(ctx context.Context, sessionID string) []LineItem {
	var row QuoteSnapshot
	err := s.db.WithContext(ctx).First(&row, "session_id = ?", sessionID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && s.logg != nil {
			s.logg.Warn(ctx, "quote snapshot read failed: "+err.Error())
		}
		return []LineItem{}
	}
	return decodeSnapshot(ctx, s.logg, []byte(row.Payload))
}

func (s *DatabaseStore) Save(ctx context.Context, sessionID string, items []LineItem) error {
	if len(items) == 0 {
		return s.db.WithContext(ctx).
			Delete(&QuoteSnapshot{}, "session_id = ?", sessionID).
			Error
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	row := QuoteSnapshot{SessionID: sessionID, Payload: string(payload)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).
		Error
}
