package listing

import (
	"strconv"
	"strings"

	"github.com/ancax2/textbook-resale-project/model"
)

// ListQuery carries the raw browse/search parameters. Numeric fields
// arrive as strings; anything unparseable is treated as absent rather
// than rejected.
type ListQuery struct {
	Search        string `query:"search"`
	ProgramName   string `query:"program_name"`
	ProgramYear   string `query:"program_year"`
	ConditionType string `query:"condition_type"`
	PriceMin      string `query:"price_min"`
	PriceMax      string `query:"price_max"`
	Page          string `query:"page"`
	Limit         string `query:"limit"`
}

func (q ListQuery) Filter() model.ListingFilter {
	f := model.ListingFilter{
		Search:        strings.TrimSpace(q.Search),
		ProgramName:   strings.TrimSpace(q.ProgramName),
		ConditionType: strings.TrimSpace(q.ConditionType),
	}
	if y, err := strconv.Atoi(strings.TrimSpace(q.ProgramYear)); err == nil {
		f.ProgramYear = &y
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(q.PriceMin), 64); err == nil {
		f.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(q.PriceMax), 64); err == nil {
		f.PriceMax = &v
	}
	return f
}

// Window returns the requested page and page size; zero values let the
// service apply its defaults and the pagination clamp.
func (q ListQuery) Window() (page, limit int) {
	page, _ = strconv.Atoi(strings.TrimSpace(q.Page))
	limit, _ = strconv.Atoi(strings.TrimSpace(q.Limit))
	return page, limit
}
