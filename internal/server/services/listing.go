package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

var allowedLimits = map[int]struct{}{5: {}, 10: {}, 15: {}, 20: {}}

var allowedSortFields = map[models.SortField]struct{}{
	models.SortByID:       {},
	models.SortByUserName: {},
	models.SortByStatus:   {},
}

// UserListParams holds the raw, untrusted query parameters of the user listing.
type UserListParams struct {
	Page     string
	Limit    string
	Search   string
	OrderBy  string
	OrderDir string
	Status   string
}

// Sanitize turns raw parameters into a trusted filter and the effective page
// number. Every parameter except status silently falls back to its default;
// an unknown status is a validation error.
func (p UserListParams) Sanitize() (models.UserFilter, int, error) {
	var filter models.UserFilter

	if p.Status != "" {
		status := models.UserStatus(p.Status)
		if !status.Valid() {
			return filter, 0, validation.New("invalid status, must be ACTIVE or INACTIVE",
				validation.FieldError{Field: "status", Message: "must be ACTIVE or INACTIVE"})
		}
		filter.Status = status
	}

	limit, err := strconv.Atoi(strings.TrimSpace(p.Limit))
	if _, ok := allowedLimits[limit]; err != nil || !ok {
		limit = defaultLimit
	}

	// A page whose offset would overflow int is treated like any other bad page.
	page, err := strconv.Atoi(strings.TrimSpace(p.Page))
	if err != nil || page <= 0 || page-1 > math.MaxInt/limit {
		page = defaultPage
	}

	filter.OrderBy = models.SortField(p.OrderBy)
	if _, ok := allowedSortFields[filter.OrderBy]; !ok {
		filter.OrderBy = models.SortByID
	}

	switch dir := models.SortDirection(strings.ToUpper(strings.TrimSpace(p.OrderDir))); dir {
	case models.SortAsc, models.SortDesc:
		filter.OrderDir = dir
	default:
		filter.OrderDir = models.SortDesc
	}

	filter.Search = strings.TrimSpace(p.Search)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	return filter, page, nil
}

// pageCount is ceil(total/limit).
func pageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
