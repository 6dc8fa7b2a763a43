package article

import "testing"

func TestSlugFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"already clean", "jamarski-tabor-2009", "jamarski-tabor-2009"},
		{"uppercase and spaces", "  Jamarski Tabor 2009  ", "jamarskitabor2009"},
		{"stray punctuation", "obcni-zbor-(2012)!", "obcni-zbor-2012"},
		{"repeated hyphens", "novice--iz--jame", "novice-iz-jame"},
		{"leading and trailing hyphens", "-odprava-", "odprava"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlugFromURL(tt.url); got != tt.want {
				t.Fatalf("SlugFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSlugFromTitle(t *testing.T) {
	got, err := SlugFromTitle("Jamarski tabor 2009")
	if err != nil {
		t.Fatalf("SlugFromTitle: %v", err)
	}
	if got != "jamarski-tabor-2009" {
		t.Fatalf("SlugFromTitle = %q", got)
	}
	if !IsValidSlug(got) {
		t.Fatalf("derived slug %q must be valid", got)
	}
}
