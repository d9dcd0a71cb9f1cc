package pyenv

import "testing"

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"requests", "requests"},
		{"Typing_Extensions", "typing-extensions"},
		{"zope.interface", "zope-interface"},
		{"Foo__Bar--baz..qux", "foo-bar-baz-qux"},
		{"  PyYAML ", "pyyaml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalName(tt.in); got != tt.want {
				t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"requests", "requests"},
		{"typing_extensions", "typing-extensions"},
		{"zope.interface", "zope.interface"},
		{"PyYAML", "PyYAML"},
		{"odd name!!here", "odd-name-here"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SafeName(tt.in); got != tt.want {
				t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
