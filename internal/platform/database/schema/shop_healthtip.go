package schema

// HealthTipTable represents the 'shop.healthtip' table
type HealthTipTable struct {
	Table     string
	ID        string
	Title     string
	Slug      string
	Body      string
	Category  string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// HealthTip is the schema definition for shop.healthtip
var HealthTip = HealthTipTable{
	Table:     "shop.healthtip",
	ID:        "id",
	Title:     "title",
	Slug:      "slug",
	Body:      "body",
	Category:  "category",
	IsActive:  "isactive",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t HealthTipTable) Columns() []string {
	return []string{t.ID, t.Title, t.Slug, t.Body, t.Category, t.IsActive, t.CreatedAt, t.UpdatedAt}
}
