package filter

import "github.com/siahsang/realworld/internal/validator"

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxOffset    = 10_000_000
)

type Filter struct {
	Limit  int64
	Offset int64
}

func NewFilter(limit, offset int64) Filter {
	return Filter{
		Limit:  limit,
		Offset: offset,
	}
}

// Default is the first page with the default page size.
func Default() Filter {
	return NewFilter(DefaultLimit, 0)
}

func ValidateFilters(filters Filter, v *validator.Validator) {
	v.Check(filters.Limit > 0, "limit", "must be greater than 0")
	v.Check(filters.Limit <= MaxLimit, "limit", "must be a maximum of 100")
	v.Check(filters.Offset >= 0, "offset", "must be greater than or equal to 0")
	v.Check(filters.Offset <= MaxOffset, "offset", "must be a maximum of 10000000")
}
