package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{ID: 1, SKU: "AMX-500", Barcode: "8901234560001", Name: "Amoxicillin 500mg", Category: "Antibiotics", SellPrice: 1299},
		{ID: 2, SKU: "VTD-1000", Barcode: "8901234560002", Name: "Vitamin D3 1000IU", Category: "Vitamins", SellPrice: 949},
		{ID: 3, SKU: "IBU-200", Barcode: "8901234560003", Name: "Ibuprofen 200mg", Category: "Pain Relief", SellPrice: 799},
		{ID: 4, SKU: "CET-10", Barcode: "8901234560006", Name: "Cetirizine 10mg", Category: "Allergy", SellPrice: 699},
	}
}

func TestSearchByName(t *testing.T) {
	results := Search(testProducts(), "vitamin", 20)
	require.Len(t, results, 1)
	assert.Equal(t, "VTD-1000", results[0].SKU)
}

func TestSearchBySKU(t *testing.T) {
	results := Search(testProducts(), "ibu-200", 20)
	require.Len(t, results, 1)
	assert.Equal(t, "Ibuprofen 200mg", results[0].Name)
}

func TestSearchByBarcode(t *testing.T) {
	results := Search(testProducts(), "8901234560006", 20)
	require.Len(t, results, 1)
	assert.Equal(t, "CET-10", results[0].SKU)

	// Substring barcode matches too
	results = Search(testProducts(), "456000", 20)
	assert.Len(t, results, 4)
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, Search(testProducts(), "aspirin", 20))
}

func TestSearchEmptyQueryIsBounded(t *testing.T) {
	products := testProducts()

	results := Search(products, "", 2)
	assert.Len(t, results, 2)

	// Limit above the catalog size returns everything
	results = Search(products, "", 20)
	assert.Len(t, results, 4)
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		min   int
		low   bool
	}{
		{"below reorder point", 2, 5, true},
		{"at reorder point", 5, 5, false},
		{"above reorder point", 10, 5, false},
		{"out of stock with no minimum", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{StockQuantity: tt.stock, MinQuantity: tt.min}
			assert.Equal(t, tt.low, p.IsLowStock())
		})
	}
}
