package domain

import (
	"errors"
	"fmt"
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// Input constraints enforced at the HTTP boundary.
const (
	MaxListIDLen   = 128
	MaxItemNameLen = 256
	MaxItemsCount  = 100
	MaxParamLen    = 256
)

// ValidateItem checks the fields every ecommerce event needs from an item.
func ValidateItem(it *Item) []FieldError {
	var errs []FieldError
	if it.ID == 0 && it.Code == "" {
		errs = append(errs, FieldError{"id", "id or code required"})
	}
	if len(it.Name) > MaxItemNameLen {
		errs = append(errs, FieldError{"name", fmt.Sprintf("max length %d", MaxItemNameLen)})
	}
	if it.Price < 0 {
		errs = append(errs, FieldError{"price", "must not be negative"})
	}
	if it.Quantity < 0 {
		errs = append(errs, FieldError{"quantity", "must not be negative"})
	}
	if it.Adults < 0 || it.Children < 0 {
		errs = append(errs, FieldError{"adults", "passenger counts must not be negative"})
	}
	return errs
}

// ValidateItems enforces the count cap and per-item validation.
// requireItems rejects an empty list.
func ValidateItems(items []Item, requireItems bool) (allErrs [][]FieldError, topErr error) {
	if requireItems && len(items) == 0 {
		return nil, errors.New("items: required and must contain at least one item")
	}
	if len(items) > MaxItemsCount {
		return nil, fmt.Errorf("items: max %d items", MaxItemsCount)
	}
	allErrs = make([][]FieldError, len(items))
	var any bool
	for i := range items {
		fe := ValidateItem(&items[i])
		if len(fe) > 0 {
			allErrs[i] = fe
			any = true
		}
	}
	if any {
		return allErrs, fmt.Errorf("one or more items failed validation")
	}
	return nil, nil
}

// ValidateListID checks a list identifier used as a dedup key component.
func ValidateListID(listID string) []FieldError {
	if listID == "" {
		return []FieldError{{"list_id", "required"}}
	}
	if len(listID) > MaxListIDLen {
		return []FieldError{{"list_id", fmt.Sprintf("max length %d", MaxListIDLen)}}
	}
	return nil
}

// ValidatePurchase checks the identifiers and payment metadata of a purchase.
func ValidatePurchase(reservationID, tourID int64, p *PaymentInfo) []FieldError {
	var errs []FieldError
	if reservationID <= 0 {
		errs = append(errs, FieldError{"reservation_id", "required positive id"})
	}
	if tourID <= 0 {
		errs = append(errs, FieldError{"tour_id", "required positive id"})
	}
	if p.TransactionID == "" {
		errs = append(errs, FieldError{"payment.transaction_id", "required"})
	}
	if p.TotalValue < 0 {
		errs = append(errs, FieldError{"payment.total_value", "must not be negative"})
	}
	return errs
}

// ValidateParams caps the length of free-form string parameters.
func ValidateParams(params map[string]string) []FieldError {
	var errs []FieldError
	for k, v := range params {
		if len(v) > MaxParamLen {
			errs = append(errs, FieldError{k, fmt.Sprintf("max length %d", MaxParamLen)})
		}
	}
	return errs
}
