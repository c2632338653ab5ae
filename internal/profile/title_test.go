package profile

import "testing"

func TestParseTitle(t *testing.T) {
	tests := []struct {
		title        string
		wantName     string
		wantHeadline string
	}{
		{"Jane Doe - Relationship Manager at BNP | LinkedIn", "Jane Doe", "Relationship Manager at BNP"},
		{"John Smith - Private Banker - LinkedIn", "John Smith", "Private Banker"},
		{"John Smith | LinkedIn", "John Smith", ""},
		{"Marie Curie - Head of Wealth - Société Générale | LinkedIn", "Marie Curie", "Head of Wealth - Société Générale"},
		{"Someone | Banker - Paris", "Someone | Banker", "Paris"},
		{"No separators here", "", ""},
		{"", "", ""},
		{"  Padded Name  -  Advisor  ", "Padded Name", "Advisor"},
	}

	for _, tt := range tests {
		name, headline := ParseTitle(tt.title)
		if name != tt.wantName {
			t.Errorf("ParseTitle(%q) name: Expected %q, got %q", tt.title, tt.wantName, name)
		}
		if headline != tt.wantHeadline {
			t.Errorf("ParseTitle(%q) headline: Expected %q, got %q", tt.title, tt.wantHeadline, headline)
		}
	}
}
