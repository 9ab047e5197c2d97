package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhatsApp(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"formatted mobile": {"(11) 99999-0000", "11999990000", true},
		"country code":     {"+55 11 99999-0000", "11999990000", true},
		"landline":         {"11 3333-4444", "1133334444", true},
		"trunk prefix":     {"011999990000", "11999990000", true},
		"too short":        {"99999-0000", "", false},
		"letters only":     {"whatsapp", "", false},
		"too long":         {"+55 11 99999-00001", "", false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := NormalizeWhatsApp(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsEmailDomainValid_Malformed(t *testing.T) {
	assert.False(t, IsEmailDomainValid("sem-arroba"))
	assert.False(t, IsEmailDomainValid("ana@"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}
