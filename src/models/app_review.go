package models

// AppReview is one customer review row from the public App Store feed.
type AppReview struct {
	AppID      string `json:"app_id" csv:"app_id"`
	Storefront string `json:"storefront" csv:"storefront"`
	ReviewID   string `json:"review_id" csv:"review_id"`
	AuthorName string `json:"author_name" csv:"author_name"`
	AuthorURI  string `json:"author_uri" csv:"author_uri"`
	Title      string `json:"title" csv:"title"`
	Body       string `json:"body" csv:"body"`
	Rating     string `json:"rating" csv:"rating"`
	Version    string `json:"version" csv:"version"`
	UpdatedAt  string `json:"updated_at" csv:"updated_at"`
	VoteSum    string `json:"vote_sum" csv:"vote_sum"`
	VoteCount  string `json:"vote_count" csv:"vote_count"`
	// DeviceType is not present in the public feed; the column is kept for
	// header stability.
	DeviceType string `json:"device_type" csv:"device_type"`

	// Extra carries forward-compat fields outside the core column set; the
	// csv exporter appends them as sorted extra columns.
	Extra map[string]string `json:"-" csv:"-"`
}

// ReviewCoreColumns is the stable csv header order.
var ReviewCoreColumns = []string{
	"app_id", "storefront", "review_id",
	"author_name", "author_uri",
	"title", "body", "rating", "version",
	"updated_at", "vote_sum", "vote_count", "device_type",
}

// Field returns the value of a column by name, falling back to Extra for
// anything outside the core set.
func (r *AppReview) Field(name string) string {
	switch name {
	case "app_id":
		return r.AppID
	case "storefront":
		return r.Storefront
	case "review_id":
		return r.ReviewID
	case "author_name":
		return r.AuthorName
	case "author_uri":
		return r.AuthorURI
	case "title":
		return r.Title
	case "body":
		return r.Body
	case "rating":
		return r.Rating
	case "version":
		return r.Version
	case "updated_at":
		return r.UpdatedAt
	case "vote_sum":
		return r.VoteSum
	case "vote_count":
		return r.VoteCount
	case "device_type":
		return r.DeviceType
	default:
		return r.Extra[name]
	}
}
