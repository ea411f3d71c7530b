package gitsource

import (
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{"https", "https://github.com/acme/decks.git", filepath.Join("repos", "github.com", "acme", "decks"), false},
		{"https without suffix", "https://example.org/team/spanish", filepath.Join("repos", "example.org", "team", "spanish"), false},
		{"scp form", "git@github.com:acme/decks.git", filepath.Join("repos", "github.com", "acme", "decks"), false},
		{"missing path", "https://github.com/", "", true},
		{"plain path", "/tmp/decks", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %s, but got path %s", tc.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalPath() returned an unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected path '%s', but got '%s'", tc.expected, got)
			}
		})
	}
}
