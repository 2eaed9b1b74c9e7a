package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stridecart/internal/domain"
)

func TestReadCatalogSheetSkipsBadRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCatalogSheet(&buf, []domain.Product{
		{ID: "p1", Name: "Air Runner", Price: 120, Stock: 4, Sizes: []float64{9, 9.5}, Images: []string{"/uploads/a.jpg"}},
		{Name: "Refund Shoe", Price: -50, Stock: 1},
		{Name: "Ghost Stock", Price: 80, Stock: -3},
		{ID: "p4", Price: 60, Stock: 2},
	}))

	forms, skipped, err := readCatalogSheet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, forms, 1)
	assert.Equal(t, "p1", forms[0].ID)
	assert.Equal(t, 120.0, forms[0].Price)
	assert.Equal(t, 4, forms[0].Stock)
	assert.Equal(t, []float64{9, 9.5}, forms[0].Sizes)
	assert.Equal(t, []string{"/uploads/a.jpg"}, forms[0].KeepImages)
}
