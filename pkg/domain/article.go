package domain

// UntitledTitle is used when no title can be derived from a page
const UntitledTitle = "Untitled"

// ArticleRecord is one extracted article as it is posted to the ingestion API
// and, optionally, archived.
type ArticleRecord struct {
	Title            string         `json:"title" bson:"title"`
	Content          string         `json:"content" bson:"content"`
	Source           string         `json:"source" bson:"source"`
	ExtraInformation map[string]any `json:"extra_information" bson:"extra_information"`
	ArticleURL       string         `json:"article_url" bson:"article_url"`
	ImageURL         string         `json:"image_url" bson:"image_url"`
	// CreatedAt and UpdatedAt are epoch seconds (UTC). 0 means unknown.
	CreatedAt int64 `json:"created_at" bson:"created_at"`
	UpdatedAt int64 `json:"updated_at" bson:"updated_at"`
}

// RawDates holds date strings as found in the markup, before normalization
type RawDates struct {
	CreatedAt string
	UpdatedAt string
}

// Complete reports whether both dates were found
func (d RawDates) Complete() bool {
	return d.CreatedAt != "" && d.UpdatedAt != ""
}
