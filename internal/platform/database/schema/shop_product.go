package schema

// ProductTable represents the 'shop.product' table
type ProductTable struct {
	Table         string
	ID            string
	Name          string
	Description   string
	Price         string
	Category      string
	StockQuantity string
	ImageURL      string
	IsActive      string
	IsFeatured    string
	IsBestSeller  string
	CreatedAt     string
	UpdatedAt     string
}

// Product is the schema definition for shop.product
var Product = ProductTable{
	Table:         "shop.product",
	ID:            "id",
	Name:          "name",
	Description:   "description",
	Price:         "price",
	Category:      "category",
	StockQuantity: "stockquantity",
	ImageURL:      "imageurl",
	IsActive:      "isactive",
	IsFeatured:    "isfeatured",
	IsBestSeller:  "isbestseller",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t ProductTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Description, t.Price, t.Category, t.StockQuantity,
		t.ImageURL, t.IsActive, t.IsFeatured, t.IsBestSeller, t.CreatedAt, t.UpdatedAt,
	}
}
