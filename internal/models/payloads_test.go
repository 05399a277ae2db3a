package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestProductPayload_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		payload ProductPayload
		fields  []string
	}{
		{
			name:    "Complete Payload",
			payload: ProductPayload{SKU: "SKU-1", BarCode: "770001", Name: "Café", CostPrice: floatPtr(1200)},
		},
		{
			name:    "Missing Required Fields",
			payload: ProductPayload{},
			fields:  []string{"sku", "barCode", "name", "costPrice"},
		},
		{
			name:    "Negative Cost",
			payload: ProductPayload{SKU: "SKU-1", BarCode: "770001", Name: "Café", CostPrice: floatPtr(-1)},
			fields:  []string{"costPrice"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate()
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			got := make([]string, 0, len(verrs))
			for _, detail := range verrs.Details() {
				got = append(got, detail.Field)
			}
			assert.Equal(t, tc.fields, got)
		})
	}
}

func TestCategoryAndInventoryPayload_Validate(t *testing.T) {
	assert.Error(t, CategoryPayload{Name: "  "}.Validate())
	assert.NoError(t, CategoryPayload{Name: "Bebidas"}.Validate())

	inv := NewInventoryPayload()
	assert.Error(t, inv.Validate(), "product is required")

	inv.ProductID = 7
	assert.NoError(t, inv.Validate())

	inv.Quantity = -1
	assert.Error(t, inv.Validate())
}

func TestInventory_IsLowStock(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int
		minStock int
		expected bool
	}{
		{"Below Minimum", 3, 5, true},
		{"At Minimum", 5, 5, true},
		{"Above Minimum", 6, 5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inv := Inventory{Quantity: tc.quantity, MinStock: tc.minStock}
			assert.Equal(t, tc.expected, inv.IsLowStock())
		})
	}
}

func TestOrderStatus_IsOpen(t *testing.T) {
	assert.True(t, OrderStatusPending.IsOpen())
	assert.True(t, OrderStatusShipped.IsOpen())
	assert.False(t, OrderStatusDelivered.IsOpen())
	assert.False(t, OrderStatusCancelled.IsOpen())
	assert.False(t, OrderStatus("LOST").Valid())
}
