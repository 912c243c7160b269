package models

// SortField is a user column allowed in ORDER BY.
type SortField string

const (
	SortByID       SortField = "id"
	SortByUserName SortField = "username"
	SortByStatus   SortField = "status"
)

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// UserFilter is a sanitized user listing query. Every field has already been
// checked against its allowlist, so repositories may trust it.
type UserFilter struct {
	Search   string
	Status   UserStatus
	OrderBy  SortField
	OrderDir SortDirection
	Limit    int
	Offset   int
}

// UserPage is one page of the user listing.
type UserPage struct {
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int64         `json:"pages"`
	Data  []UserSummary `json:"data"`
}
