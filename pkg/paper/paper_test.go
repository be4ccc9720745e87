package paper

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		p    Paper
		want bool
	}{
		{"complete", Paper{ID: "W1", Title: "Attention Is All You Need"}, true},
		{"missing id", Paper{Title: "Untitled"}, false},
		{"missing title", Paper{ID: "W2"}, false},
		{"whitespace title", Paper{ID: "W3", Title: "   "}, false},
		{"empty", Paper{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorNames(t *testing.T) {
	p := Paper{Authors: []Author{{Name: "Ashish Vaswani"}, {Name: ""}, {Name: "Noam Shazeer"}}}
	if got := p.AuthorNames(); got != "Ashish Vaswani, Noam Shazeer" {
		t.Errorf("AuthorNames() = %q", got)
	}
	if got := (Paper{}).AuthorNames(); got != "" {
		t.Errorf("AuthorNames() on empty = %q", got)
	}
}
