package wikiurl

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url    string
		want   Site
		wantOK bool
	}{
		{"https://en.wikipedia.org/wiki/Mind_map", Site{Lang: "en"}, true},
		{"https://fr.wikipedia.org/wiki/Carte_heuristique", Site{Lang: "fr"}, true},
		{"https://en.m.wikipedia.org/wiki/Mind_map", Site{Lang: "en", Mobile: true}, true},
		{"http://de.wikipedia.org/wiki/Mindmap", Site{Lang: "de"}, true},
		{"https://www.en.wikipedia.org/wiki/X", Site{Lang: "en"}, true},
		{"https://EN.Wikipedia.org/wiki/X", Site{Lang: "en"}, true},

		{"https://wikipedia.org/wiki/X", Site{}, false},
		{"https://example.com/wiki/X", Site{}, false},
		{"https://en.wikipedia.org.evil.com/wiki/X", Site{}, false},
		{"not a url", Site{}, false},
		{"", Site{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := Classify(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	en := Site{Lang: "en"}
	mobile := Site{Lang: "en", Mobile: true}

	tests := []struct {
		name    string
		site    Site
		href    string
		want    string
		wantErr bool
	}{
		{"relative", en, "/wiki/History_of_mind_maps", "https://en.wikipedia.org/wiki/History_of_mind_maps", false},
		{"relative from mobile goes to desktop", mobile, "/wiki/Concept_map", "https://en.wikipedia.org/wiki/Concept_map", false},
		{"absolute", en, "https://fr.wikipedia.org/wiki/Carte", "https://fr.wikipedia.org/wiki/Carte", false},
		{"protocol relative", en, "//en.wikipedia.org/wiki/Tony_Buzan", "https://en.wikipedia.org/wiki/Tony_Buzan", false},
		{"fragment dropped", en, "/wiki/Mind_map#History", "https://en.wikipedia.org/wiki/Mind_map", false},

		{"empty", en, "", "", true},
		{"fragment only", en, "#cite_note-1", "", true},
		{"path relative", en, "wiki/Foo", "", true},
		{"relative without language", Site{}, "/wiki/Foo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.site, tt.href)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.href, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedLink) {
				t.Errorf("Resolve(%q) error = %v, want ErrMalformedLink", tt.href, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestSuffix(t *testing.T) {
	tests := map[string]string{
		"https://en.wikipedia.org/wiki/Mind_map":         "Mind_map",
		"https://en.wikipedia.org/wiki/Mind_map/":        "Mind_map",
		"https://en.wikipedia.org/wiki/Mind_map#History": "Mind_map",
		"https://en.wikipedia.org/wiki/Mind_map?x=1":     "Mind_map",
		"Mind_map": "Mind_map",
	}
	for in, want := range tests {
		if got := Suffix(in); got != want {
			t.Errorf("Suffix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("Carte_heuristique"); got != "Carte heuristique" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := DisplayName("Caf%C3%A9_culture"); got != "Café culture" {
		t.Errorf("DisplayName = %q", got)
	}
}
