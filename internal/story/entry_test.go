package story

import "testing"

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"a, b, c", []string{"a", "b", "c"}},
		{"  spaced out ,b", []string{"b", "spaced out"}},
		{"a,,b,", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		got := Entry{Tags: ParseTags(tt.raw)}.TagList()
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		name       string
		capitalize bool
		want       string
	}{
		{"the-old-house.txt", true, "The Old House"},
		{"the-old-house.txt", false, "the old house"},
		{"dragon's-lair.txt", true, "Dragon's Lair"},
		{"UPPERCASE.txt", true, "Uppercase"},
		{"noextension", true, "Noextension"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.name, tt.capitalize); got != tt.want {
			t.Errorf("TitleFromFilename(%q, %v) = %q, want %q", tt.name, tt.capitalize, got, tt.want)
		}
	}
}

func TestEntryEqual(t *testing.T) {
	a := Entry{Index: 1, Title: "x", Tags: TagSet("a", "b")}
	b := Entry{Index: 1, Title: "x", Tags: TagSet("b", "a")}
	if !a.Equal(b) {
		t.Error("entries with the same tags in any order should be equal")
	}
	c := Entry{Index: 1, Title: "x", Tags: TagSet("a")}
	if a.Equal(c) {
		t.Error("entries with different tags should not be equal")
	}
}
