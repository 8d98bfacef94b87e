package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayName(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"ana.costa@example.com", "Ana Costa"},
		{"bruno_dias@example.com", "Bruno Dias"},
		{"medico@example.com", "Medico"},
		{"first.middle.last@example.com", "First Middle Last"},
		{"+@example.com", "User"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveDisplayName(tc.email), tc.email)
	}
}
