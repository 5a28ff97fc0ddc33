package service_test

import (
	"strings"
	"testing"

	"gameportal/backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Block Drop", "block-drop"},
		{"  Hello,  World!! ", "hello-world"},
		{"Tetris 99", "tetris-99"},
		{"Café Rush", "caf-rush"},
		{"!!!", "item"},
		{"", "item"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.MakeSlug(tt.in), tt.in)
	}

	long := service.MakeSlug(strings.Repeat("ab ", 60))
	assert.LessOrEqual(t, len(long), 100)
	assert.False(t, strings.HasSuffix(long, "-"))
}
