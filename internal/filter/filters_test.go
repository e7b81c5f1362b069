package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siahsang/realworld/internal/validator"
)

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		errors map[string][]string
	}{
		{name: "default", filter: Default(), errors: map[string][]string{}},
		{name: "upper bounds", filter: NewFilter(MaxLimit, MaxOffset), errors: map[string][]string{}},
		{name: "zero limit", filter: NewFilter(0, 0), errors: map[string][]string{"limit": {"must be greater than 0"}}},
		{name: "limit too big", filter: NewFilter(101, 0), errors: map[string][]string{"limit": {"must be a maximum of 100"}}},
		{name: "negative offset", filter: NewFilter(10, -1), errors: map[string][]string{"offset": {"must be greater than or equal to 0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(tt.filter, v)
			assert.Equal(t, tt.errors, v.Errors)
		})
	}
}
