package schema

// FeedbackTable represents the 'shop.feedback' table
type FeedbackTable struct {
	Table     string
	ID        string
	UserID    string
	Title     string
	Message   string
	Rating    string
	Response  string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// Feedback is the schema definition for shop.feedback
var Feedback = FeedbackTable{
	Table:     "shop.feedback",
	ID:        "id",
	UserID:    "userid",
	Title:     "title",
	Message:   "message",
	Rating:    "rating",
	Response:  "response",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t FeedbackTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Message, t.Rating, t.Response, t.Status, t.CreatedAt, t.UpdatedAt}
}
