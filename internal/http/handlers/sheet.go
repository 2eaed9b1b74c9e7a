package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	"stridecart/internal/domain"
)

var sheetHeaders = []string{"ID", "Name", "Brand", "Description", "Price", "Stock", "Sizes", "Category", "Images", "CreatedAt"}

// writeCatalogSheet writes products as a single "Products" sheet.
func writeCatalogSheet(w io.Writer, products []domain.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetValue(joinSizes(p.Sizes))
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(strings.Join(p.Images, ","))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file.Write(w)
}

// readCatalogSheet parses a sheet laid out like writeCatalogSheet's output.
// Rows without a name, or with a price or stock that is unreadable or
// negative, are skipped. A
// non-empty ID turns the row into an update; existing images are kept.
func readCatalogSheet(r io.ReaderAt, size int64) ([]domain.ProductForm, int, error) {
	xf, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, 0, err
	}
	if len(xf.Sheets) == 0 || xf.Sheets[0].MaxRow < 2 {
		return nil, 0, nil
	}
	sheet := xf.Sheets[0]
	var forms []domain.ProductForm
	skipped := 0
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		price, err1 := strconv.ParseFloat(get(4), 64)
		stock, err2 := strconv.Atoi(get(5))
		if get(1) == "" || err1 != nil || err2 != nil || price < 0 || stock < 0 {
			skipped++
			continue
		}
		f := domain.ProductForm{
			ID:          get(0),
			Name:        get(1),
			Brand:       get(2),
			Description: get(3),
			Price:       price,
			Stock:       stock,
			Sizes:       parseSizes(get(6)),
			Category:    get(7),
		}
		for _, img := range strings.Split(get(8), ",") {
			if img = strings.TrimSpace(img); img != "" {
				f.KeepImages = append(f.KeepImages, img)
			}
		}
		forms = append(forms, f)
	}
	return forms, skipped, nil
}

func parseSizes(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil && v > 0 {
			out = append(out, v)
		}
	}
	return out
}
