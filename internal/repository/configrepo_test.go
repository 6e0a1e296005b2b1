package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePrefix_EscapesMetacharacters(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"plain", "config", `config%`},
		{"underscore", "risk_", `risk\_%`},
		{"nested underscores", "credit_rating_", `credit\_rating\_%`},
		{"percent", "odd%key", `odd\%key%`},
		{"backslash", `a\b`, `a\\b%`},
		{"empty matches everything", "", "%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, likePrefix(tt.prefix))
		})
	}
}
