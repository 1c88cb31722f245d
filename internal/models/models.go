package models

// CartEntry is one product reference in the persisted cart.
// The JSON field names are the wire format of the persisted slot.
type CartEntry struct {
	ProductID int64  `json:"id"`
	Quantity  int    `json:"quantity"`
	AddedAt   string `json:"addedAt"`
}

// Cart keeps entries in first-added order.
type Cart []CartEntry

type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	Price     int64  `json:"price"`
	CreatedAt string `json:"create_date,omitempty"`
}

type TotalResponse struct {
	Total int64 `json:"total"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type ItemResponse struct {
	ID       int64 `json:"id"`
	Contains bool  `json:"contains"`
	Quantity int   `json:"quantity"`
}

type AddRequest struct {
	ID       *int64 `json:"id"`
	Quantity *int   `json:"quantity,omitempty"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}
