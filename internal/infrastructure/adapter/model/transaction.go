package model

import (
	"time"
)

// Transaction is the database model for payment transactions. Items,
// customer info and metadata are stored as jsonb columns, marshalled by
// the repository; rows are soft-deleted only.
type Transaction struct {
	ID                   string     `gorm:"primaryKey;size:36"`
	OwnerID              string     `gorm:"not null;index;size:64"`
	OrderID              string     `gorm:"uniqueIndex;not null;size:64"`
	GatewayTransactionID string     `gorm:"index;size:64"`
	Amount               string     `gorm:"not null;size:20"`
	AmountMinor          int64      `gorm:"not null"`
	Currency             string     `gorm:"not null;size:3"`
	PaymentURL           string     `gorm:"type:text"`
	Description          string     `gorm:"type:text"`
	Items                []byte     `gorm:"type:jsonb"`
	Customer             []byte     `gorm:"type:jsonb"`
	Metadata             []byte     `gorm:"type:jsonb"`
	Status               string     `gorm:"not null;index;size:20"`
	CreatedAt            time.Time  `gorm:"not null;index"`
	UpdatedAt            time.Time  `gorm:"not null"`
	DeletedAt            *time.Time `gorm:"index"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
