package schema

// CompanyInfoTable represents the 'shop.companyinfo' table
type CompanyInfoTable struct {
	Table     string
	ID        string
	Name      string
	Story     string
	Mission   string
	Vision    string
	UpdatedAt string
}

// CompanyInfo is the schema definition for shop.companyinfo
var CompanyInfo = CompanyInfoTable{
	Table:     "shop.companyinfo",
	ID:        "id",
	Name:      "name",
	Story:     "story",
	Mission:   "mission",
	Vision:    "vision",
	UpdatedAt: "updatedat",
}

// TeamMemberTable represents the 'shop.teammember' table
type TeamMemberTable struct {
	Table     string
	ID        string
	Name      string
	Role      string
	PhotoURL  string
	SortOrder string
	CreatedAt string
}

// TeamMember is the schema definition for shop.teammember
var TeamMember = TeamMemberTable{
	Table:     "shop.teammember",
	ID:        "id",
	Name:      "name",
	Role:      "role",
	PhotoURL:  "photourl",
	SortOrder: "sortorder",
	CreatedAt: "createdat",
}

// CompanyStatTable represents the 'shop.companystat' table
type CompanyStatTable struct {
	Table     string
	ID        string
	Label     string
	Value     string
	SortOrder string
}

// CompanyStat is the schema definition for shop.companystat
var CompanyStat = CompanyStatTable{
	Table:     "shop.companystat",
	ID:        "id",
	Label:     "label",
	Value:     "value",
	SortOrder: "sortorder",
}
