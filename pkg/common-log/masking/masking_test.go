package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasking(t *testing.T) {
	svc := NewMaskingService()

	tests := []struct {
		name  string
		value string
		typ   MaskingType
		want  string
	}{
		{"full", "value1", Full, "XXXXXX"},
		{"empty", "", Full, ""},
		{"email", "baker@vaadin.com", Email, "bXXXX@vaadin.com"},
		{"short email", "a@b.c", Email, "X@b.c"},
		{"not an email", "nobody", Email, "XXXXXX"},
		{"phone", "+1-555-0100", Phone, "XXXXXXXX100"},
		{"short phone", "12", Phone, "XX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Masking(tt.value, tt.typ))
		})
	}
}
