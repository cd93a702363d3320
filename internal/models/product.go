package models

import "time"

// Product is a catalog record as shown to shoppers. Price is the display
// string ("₹1,299"), not a numeric amount; parsing happens at the point of
// use (filtering, totals).
type Product struct {
	ProductID     int       `json:"product_id"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"original_price,omitempty"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	Discount      string    `json:"discount,omitempty"`
	Prime         bool      `json:"prime,omitempty"`
	FreeDelivery  bool      `json:"free_delivery,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CartItem denormalizes the product fields a cart line needs so the cart
// stays valid even if the product is edited afterwards.
type CartItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}
