package schema

// ContactInfoTable represents the 'shop.contactinfo' table
type ContactInfoTable struct {
	Table       string
	ID          string
	Phone       string
	Email       string
	Location    string
	MapLink     string
	SocialLinks string
	UpdatedAt   string
}

// ContactInfo is the schema definition for shop.contactinfo
var ContactInfo = ContactInfoTable{
	Table:       "shop.contactinfo",
	ID:          "id",
	Phone:       "phone",
	Email:       "email",
	Location:    "location",
	MapLink:     "maplink",
	SocialLinks: "sociallinks",
	UpdatedAt:   "updatedat",
}
