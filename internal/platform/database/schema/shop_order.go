package schema

// OrderTable represents the 'shop.customerorder' table
type OrderTable struct {
	Table           string
	ID              string
	UserID          string
	Status          string
	TotalAmount     string
	ShippingAddress string
	CreatedAt       string
	UpdatedAt       string
}

// Order is the schema definition for shop.customerorder
var Order = OrderTable{
	Table:           "shop.customerorder",
	ID:              "id",
	UserID:          "userid",
	Status:          "status",
	TotalAmount:     "totalamount",
	ShippingAddress: "shippingaddress",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// OrderItemTable represents the 'shop.orderitem' table
type OrderItemTable struct {
	Table       string
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	UnitPrice   string
	Quantity    string
}

// OrderItem is the schema definition for shop.orderitem
//
// Product name and unit price are denormalized at purchase time so order
// history survives later catalogue edits.
var OrderItem = OrderItemTable{
	Table:       "shop.orderitem",
	ID:          "id",
	OrderID:     "orderid",
	ProductID:   "productid",
	ProductName: "productname",
	UnitPrice:   "unitprice",
	Quantity:    "quantity",
}
