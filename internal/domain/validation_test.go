package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItem(t *testing.T) {
	assert.Empty(t, ValidateItem(&Item{ID: 1}))
	assert.Empty(t, ValidateItem(&Item{Code: "TK-1"}))

	errs := ValidateItem(&Item{Price: -1, Name: strings.Repeat("x", MaxItemNameLen+1)})
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"id", "name", "price"}, fields)
}

func TestValidateItems(t *testing.T) {
	_, top := ValidateItems(nil, true)
	assert.Error(t, top)

	_, top = ValidateItems(nil, false)
	assert.NoError(t, top)

	_, top = ValidateItems(make([]Item, MaxItemsCount+1), false)
	assert.ErrorContains(t, top, "max")

	all, top := ValidateItems([]Item{{ID: 1}, {}}, true)
	require.Error(t, top)
	assert.Empty(t, all[0])
	assert.Equal(t, "id", all[1][0].Field)
}

func TestValidateListID(t *testing.T) {
	assert.Empty(t, ValidateListID("home"))
	assert.Equal(t, "list_id", ValidateListID("")[0].Field)
	assert.NotEmpty(t, ValidateListID(strings.Repeat("a", MaxListIDLen+1)))
}

func TestValidatePurchase(t *testing.T) {
	assert.Empty(t, ValidatePurchase(501, 42, &PaymentInfo{TransactionID: "TX1"}))
	assert.Len(t, ValidatePurchase(0, 0, &PaymentInfo{TotalValue: -5}), 4)
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "TK-42", Item{ID: 42, Code: "TK-42"}.ItemID())
	assert.Equal(t, "42", Item{ID: 42}.ItemID())
	assert.Equal(t, "", Item{}.ItemID())
}

func TestCurrencyOrDefault(t *testing.T) {
	assert.Equal(t, "PEN", PaymentInfo{Currency: "PEN"}.CurrencyOrDefault("EUR"))
	assert.Equal(t, "EUR", PaymentInfo{}.CurrencyOrDefault("EUR"))
	assert.Equal(t, DefaultCurrency, PaymentInfo{}.CurrencyOrDefault(""))
}
