package model

// SortField is a column a robot listing can be ordered by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByYear      SortField = "year"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// SortOrder is the direction of a listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Listing defaults and bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListOptions filters, orders and paginates a robot listing.
// Zero values fall back to the defaults (name, asc, DefaultLimit, 0, active only).
type ListOptions struct {
	Q               string    `json:"q"`
	Sort            SortField `json:"sort"`
	Order           SortOrder `json:"order"`
	Limit           int       `json:"limit"`
	Offset          int       `json:"offset"`
	IncludeArchived bool      `json:"includeArchived"`
}

// Page is one page of a listing.
type Page struct {
	Data    []Robot `json:"data"`
	Total   int64   `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
	HasMore bool    `json:"hasMore"`
}

// Stats aggregates record counts. ByType only counts active records.
type Stats struct {
	Total    int64               `json:"total"`
	Active   int64               `json:"active"`
	Archived int64               `json:"archived"`
	ByType   map[RobotType]int64 `json:"byType"`
}
