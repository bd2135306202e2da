package models

// OrderLineRequest represents a single line item in an incoming order request.
type OrderLineRequest struct {
	ItemCode    string  `json:"itemCode"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// OrderRequest represents an incoming order request.
// The order number is server-assigned and never accepted from the client.
type OrderRequest struct {
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Address   string             `json:"address"`
	City      string             `json:"city"`
	Postcode  string             `json:"postcode"`
	Phone     string             `json:"phone"`
	Lines     []OrderLineRequest `json:"orderLines"`
}

// OrderLine is a line item of a persisted order, copied 1:1 from the request.
type OrderLine struct {
	ItemCode    string  `json:"itemCode"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// Order represents a persisted order. Orders are immutable once stored;
// there is no update path.
type Order struct {
	OrderNumber string      `json:"orderNumber"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Postcode    string      `json:"postcode"`
	Phone       string      `json:"phone"`
	Lines       []OrderLine `json:"orderLines"`
}

// InventoryStatus is one entry of a bulk stock check response.
// The remote service does not guarantee response order matches request order.
type InventoryStatus struct {
	ItemCode          string `json:"itemCode"`
	InStock           bool   `json:"inStock"`
	AvailableQuantity int    `json:"quantity"`
}

// OrderConfirmation is the payload delivered to the notification service
// after an order has been persisted.
type OrderConfirmation struct {
	OrderNumber string      `json:"orderNumber"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Postcode    string      `json:"postcode"`
	Phone       string      `json:"phone"`
	Lines       []OrderLine `json:"orderLines"`
}
