package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/entities"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// JournalEntry is one balanced, immutable group of debit/credit lines.
// Entries are only ever created; a cancellation adds a new reversing entry
// and never touches the original.
type JournalEntry struct {
	ID              uint64           `json:"id" gorm:"primaryKey"`
	UUID            uuid.UUID        `json:"uuid"`
	Date            time.Time        `json:"date" gorm:"index"`
	Description     string           `json:"description" validate:"required"`
	SourceType      types.SourceType `json:"source_type" validate:"ValidateSourceType"`
	SourceReference null.String      `json:"source_reference"`
	Lines           []EntryLine      `json:"lines" gorm:"foreignKey:EntryID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (e JournalEntry) ValidateSourceType(source_type types.SourceType) bool {
	supported_types := []types.SourceType{
		types.SourcePurchase,
		types.SourceSale,
		types.SourceCancellation,
		types.SourceManual,
	}

	for _, t := range supported_types {
		if t == source_type {
			return true
		}
	}

	return false
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}

	return nil
}

func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}

	return total
}

func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}

	return total
}

// Balanced reports exact decimal equality of debit and credit totals.
func (e *JournalEntry) Balanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// ReversedLines derives the line set of a cancellation entry: same accounts,
// same amounts, debit and credit swapped.
func (e *JournalEntry) ReversedLines() []EntryLine {
	lines := make([]EntryLine, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, line.Reversed())
	}

	return lines
}

func (e *JournalEntry) ToJSON() entities.EntryEntities {
	lines := make([]entities.LineEntities, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, entities.LineEntities{
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	var reference *string
	if e.SourceReference.Valid {
		reference = &e.SourceReference.String
	}

	return entities.EntryEntities{
		ID:              e.ID,
		UUID:            e.UUID,
		Date:            e.Date,
		Description:     e.Description,
		SourceType:      e.SourceType,
		SourceReference: reference,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
	}
}
