package schema

// CartTable represents the 'shop.cart' table
type CartTable struct {
	Table     string
	ID        string
	UserID    string
	CreatedAt string
	UpdatedAt string
}

// Cart is the schema definition for shop.cart
var Cart = CartTable{
	Table:     "shop.cart",
	ID:        "id",
	UserID:    "userid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// CartItemTable represents the 'shop.cartitem' table
type CartItemTable struct {
	Table     string
	ID        string
	CartID    string
	ProductID string
	Quantity  string
	CreatedAt string
	UpdatedAt string
}

// CartItem is the schema definition for shop.cartitem
var CartItem = CartItemTable{
	Table:     "shop.cartitem",
	ID:        "id",
	CartID:    "cartid",
	ProductID: "productid",
	Quantity:  "quantity",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
