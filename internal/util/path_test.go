package util

import "testing"

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		max  int
		want string
	}{
		{"fits", `C:\proj\api`, 20, `C:\proj\api`},
		{"exact", "/srv/web", 8, "/srv/web"},
		{"keeps tail", "/home/dev/projects/frontend", 14, "...ts/frontend"},
		{"multibyte", "/home/joão/área", 8, ".../área"},
		{"tiny max", "/a/b/c/d", 2, "/d"},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.max)
			if got != tt.want {
				t.Errorf("TruncatePath(%q, %d) = %q, want %q", tt.path, tt.max, got, tt.want)
			}
			if n := len([]rune(got)); n > tt.max && tt.path != "" {
				t.Errorf("result has %d runes, max %d", n, tt.max)
			}
		})
	}
}
