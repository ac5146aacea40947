package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{Limit: 0, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, dto.DefaultPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = dto.PageRequest{Limit: 500, Offset: 40}
	p.DefaultPage()
	assert.Equal(t, 500, p.Limit, "el exceso lo rechaza la validación")
	assert.Equal(t, 40, p.Offset)
}

func TestPageRequest_Response(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		returned int
		hasMore  bool
	}{
		{"página vacía", 20, 0, false},
		{"página parcial", 20, 7, false},
		{"página llena", 20, 20, true},
		{"sin límite", 0, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dto.PageRequest{Limit: tt.limit, Offset: 40}.Response(tt.returned)
			assert.Equal(t, dto.PageResponse{Limit: tt.limit, Offset: 40, Returned: tt.returned, HasMore: tt.hasMore}, got)
		})
	}
}
