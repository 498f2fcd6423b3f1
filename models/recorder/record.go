package recorder

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
)

// ExtractionRecord 一次字段提取的审计记录
type ExtractionRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	RequestID   string    `gorm:"column:request_id;type:varchar(64);uniqueIndex;not null"`
	Utterance   string    `gorm:"column:utterance;type:text;not null"`
	Source      string    `gorm:"column:source;type:enum('remote','local');not null"`
	Fields      string    `gorm:"column:fields;type:text;not null"`
	RemoteErr   string    `gorm:"column:remote_err;type:varchar(512)"`
	ReferenceAt time.Time `gorm:"column:reference_at;type:datetime(3);not null"`
	CreatedAt   time.Time `gorm:"column:created_at;type:datetime(3)"`
}

func (ExtractionRecord) TableName() string {
	return "extraction_records"
}

const maxRemoteErrLen = 512

// NewExtractionRecord 由提取结果生成审计记录
func NewExtractionRecord(requestID, utterance string, ref time.Time, out extract.Outcome) ExtractionRecord {
	fields, err := json.Marshal(out.Fields)
	if err != nil {
		fields = []byte("{}")
	}
	rec := ExtractionRecord{
		RequestID:   requestID,
		Utterance:   utterance,
		Source:      string(out.Source),
		Fields:      string(fields),
		ReferenceAt: ref,
	}
	if out.RemoteErr != nil {
		msg := out.RemoteErr.Error()
		if len(msg) > maxRemoteErrLen {
			msg = msg[:maxRemoteErrLen]
		}
		rec.RemoteErr = msg
	}
	return rec
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// AutoMigrate 建表
func (r *Repo) AutoMigrate() error {
	return r.db.AutoMigrate(&ExtractionRecord{})
}

// InsertBatchWithStats inserts records in batches and returns statistics.
// Returns: rowsAffected (actually inserted), ignored (OnConflict skipped), error
func (r *Repo) InsertBatchWithStats(ctx context.Context, rows []ExtractionRecord, batchSize int) (int64, int64, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, batchSize)

	if result.Error != nil {
		return 0, 0, result.Error
	}

	rowsAffected := result.RowsAffected
	ignored := int64(len(rows)) - rowsAffected

	return rowsAffected, ignored, nil
}
