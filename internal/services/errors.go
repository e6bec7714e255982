// internal/services/errors.go
package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User-facing rule violations. The messages are part of the API
// contract and are surfaced verbatim to callers.
var (
	ErrSellCanceledProperty = errors.New("Canceled properties cannot be sold.")
	ErrCancelSoldProperty   = errors.New("Sold properties cannot be canceled.")
	ErrDeleteActiveProperty = errors.New("Only new and canceled properties can be deleted.")
	ErrOfferAlreadyAccepted = errors.New("This offer has already been accepted.")
	ErrSellingPriceTooLow   = errors.New("The selling price must be at least 90% of the expected price! You must reduce the expected price if you want to accept this offer.")
	ErrDuplicateTagName     = errors.New("Property tags should have a unique name.")
)

// IsRuleViolation reports whether err is one of the domain rule
// sentinels, as opposed to an infrastructure failure.
func IsRuleViolation(err error) bool {
	for _, sentinel := range []error{
		ErrSellCanceledProperty,
		ErrCancelSoldProperty,
		ErrDeleteActiveProperty,
		ErrOfferAlreadyAccepted,
		ErrSellingPriceTooLow,
		ErrDuplicateTagName,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// lockForUpdate takes a row lock on postgres so concurrent offer
// submissions and accepts observe committed state. SQLite serializes
// writers on its own and rejects FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
