package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UID               string          `gorm:"column:uid;type:varchar(128);not null;uniqueIndex:uq_users_uid"`
	Email             string          `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	Name              string          `gorm:"column:name;type:varchar(255)"`
	Role              string          `gorm:"column:role;type:varchar(20);not null;default:Employee;index"`
	Designation       string          `gorm:"column:designation;type:varchar(100)"`
	BankAccountNo     string          `gorm:"column:bank_account_no;type:varchar(64)"`
	Salary            decimal.Decimal `gorm:"column:salary;type:numeric(12,2);not null;default:0"`
	PhotoURL          string          `gorm:"column:photo_url;type:text"`
	IsVerified        bool            `gorm:"column:is_verified;not null;default:false"`
	IsActiveWorksheet bool            `gorm:"column:is_active_worksheet;not null;default:true"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
