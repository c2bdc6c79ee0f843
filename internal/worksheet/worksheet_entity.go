package worksheet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Worksheet struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	UID            string         `gorm:"column:uid;type:varchar(128);not null;index:idx_worksheets_uid_period,priority:1"`
	Email          string         `gorm:"column:email;type:text;not null;index"`
	Task           string         `gorm:"column:task;type:varchar(255);not null"`
	Hours          float64        `gorm:"column:hours;type:numeric(4,2);not null"`
	WorkDate       time.Time      `gorm:"column:work_date;type:date;not null"`
	Month          string         `gorm:"column:month;type:varchar(10);not null;index:idx_worksheets_uid_period,priority:3"`
	Year           int            `gorm:"column:year;not null;index:idx_worksheets_uid_period,priority:2"`
	SubmissionDate time.Time      `gorm:"column:submission_date;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Worksheet) TableName() string {
	return "worksheets"
}
