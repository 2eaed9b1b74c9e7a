package domain

import "encoding/json"

type CartItem struct {
	ID       string  `json:"_id"`
	Product  Product `json:"product"`
	Size     float64 `json:"size"`
	Quantity int     `json:"quantity"`
}

// CartPayload is the body every cart endpoint answers with. Items is a raw
// message so that a missing field can be told apart from an empty cart.
type CartPayload struct {
	Items json.RawMessage `json:"items"`
}

type AddToCart struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Size      float64 `json:"size"`
}
