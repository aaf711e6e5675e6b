package photoslug

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The Null Pointers", "the-null-pointers"},
		{"  Kernel  Panic!  ", "kernel-panic"},
		{"AC/DC Tribute", "ac-dc-tribute"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrefixPrecedence(t *testing.T) {
	tests := []struct {
		name                          string
		band, event, photographer string
		want                          string
	}{
		{"band and event wins", "Kernel Panic", "berlin-2025", "Jamie Fontaine", "kernel-panic-berlin-2025"},
		{"event beats band-less", "", "berlin-2025", "Jamie Fontaine", "berlin-2025"},
		{"band alone", "Kernel Panic", "", "Jamie Fontaine", "kernel-panic"},
		{"photographer last resort", "", "", "Jamie Fontaine", "jamie-fontaine"},
		{"fallback", "", "", "", "photo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix(tt.band, tt.event, tt.photographer); got != tt.want {
				t.Errorf("Prefix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format("kernel-panic-berlin-2025", 7); got != "kernel-panic-berlin-2025-007" {
		t.Errorf("Format = %q", got)
	}
	if got := Format("photo", 1234); got != "photo-1234" {
		t.Errorf("Format = %q, want sequence past 999 to widen naturally", got)
	}
}
