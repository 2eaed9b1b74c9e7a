package domain

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	Sizes       []float64 `json:"size"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool { return p.Stock > 0 }

// HasSize reports whether size is one of the product's available sizes.
func (p Product) HasSize(size float64) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the legacy single "image" field and folds it into Images.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var raw struct {
		plain
		Image string `json:"image"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)
	images := p.Images[:0]
	for _, img := range p.Images {
		if img != "" {
			images = append(images, img)
		}
	}
	p.Images = images
	if len(p.Images) == 0 && raw.Image != "" {
		p.Images = []string{raw.Image}
	}
	return nil
}

// ProductForm is the manager dashboard's create/update payload. Files are
// uploaded as multipart "images" parts.
type ProductForm struct {
	ID          string
	Name        string
	Brand       string
	Description string
	Price       float64
	Stock       int
	Sizes       []float64
	Category    string
	KeepImages  []string // already-stored paths sent back on update
	Images      []Upload
}

type Upload struct {
	Filename string
	Data     []byte
}
