package finder

import "testing"

func TestMatchName(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		// Case folding
		{"report.TXT", "*.txt", true},
		{"FooBar", "foo*", true},
		{"readme", "README", true},

		// Single-character wildcard
		{"data_01.csv", "data_??.csv", true},
		{"data_1.csv", "data_??.csv", false},
		{"a", "?", true},
		{"", "?", false},
		{"ab", "?", false},

		// Star
		{"", "*", true},
		{"anything at all", "*", true},
		{"a.txt", "*.txt", true},
		{"a.txt.bak", "*.txt", false},
		{"abc", "a*c", true},
		{"ac", "a*c", true},
		{"abdc", "a*b*c", true},
		{"acb", "a*b*c", false},
		{"aXbYc", "a*b*c", true},
		{"main.go", "*.*", true},

		// Star backtracking
		{"aab", "a*b", true},
		{"aaab", "*aab", true},
		{"xxabxxabyy", "*ab*aby*", true},
		{"mississippi", "m*issip*", true},

		// Empty pattern matches only the empty name
		{"", "", true},
		{"a", "", false},

		// Literal-only patterns are exact matches
		{"notes.txt", "notes.txt", true},
		{"notes.txt", "notes", false},

		// Mixed wildcards
		{"backup_2024.tar.gz", "backup_????.tar.*", true},
		{"backup_24.tar.gz", "backup_????.tar.*", false},
	}

	for _, tt := range tests {
		if got := matchName(tt.name, tt.pattern); got != tt.want {
			t.Errorf("matchName(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestMatchNameUnicode(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"Résumé.pdf", "résumé.*", true},
		{"ОТЧЁТ.doc", "отчёт.doc", true},
		// Decomposed e + combining acute vs composed é
		{"re\u0301sume\u0301.pdf", "résumé.pdf", true},
		{"日本語.txt", "日本?.txt", true},
	}

	for _, tt := range tests {
		if got := matchName(tt.name, tt.pattern); got != tt.want {
			t.Errorf("matchName(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestHasWildcard(t *testing.T) {
	if !HasWildcard("*.txt") || !HasWildcard("data_??.csv") {
		t.Error("expected wildcard patterns to be detected")
	}
	if HasWildcard("plain-name.txt") {
		t.Error("expected literal pattern to have no wildcard")
	}
}
