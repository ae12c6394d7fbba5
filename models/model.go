package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lock scopes tx to SELECT ... FOR UPDATE. sqlite has no row locks; there
// the optimistic lock_version guard is the only line of defense.
func Lock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&JournalEntry{},
		&EntryLine{},
		&ProductCost{},
		&CostMovement{},
		&Supplier{},
		&Product{},
	)
}
