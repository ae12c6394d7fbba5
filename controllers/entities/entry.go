package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineEntities struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type EntryEntities struct {
	ID              uint64         `json:"id"`
	UUID            uuid.UUID      `json:"uuid"`
	Date            time.Time      `json:"date"`
	Description     string         `json:"description"`
	SourceType      string         `json:"source_type"`
	SourceReference *string        `json:"source_reference"`
	Lines           []LineEntities `json:"lines"`
	CreatedAt       time.Time      `json:"created_at"`
}
