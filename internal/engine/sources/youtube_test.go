package sources

import "testing"

func TestExtractVideoID(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"watch", "https://www.youtube.com/watch?v=" + id, id, true},
		{"watch trailing params", "https://www.youtube.com/watch?v=" + id + "&t=42s&list=PL123", id, true},
		{"watch v not first", "https://www.youtube.com/watch?feature=share&v=" + id, id, true},
		{"mobile host", "https://m.youtube.com/watch?v=" + id, id, true},
		{"no scheme", "youtube.com/watch?v=" + id, id, true},
		{"short link", "https://youtu.be/" + id, id, true},
		{"short link query", "https://youtu.be/" + id + "?si=abcdef", id, true},
		{"embed", "https://www.youtube.com/embed/" + id, id, true},
		{"embed trailing path", "https://www.youtube.com/embed/" + id + "/extra?autoplay=1", id, true},
		{"nocookie embed", "https://www.youtube-nocookie.com/embed/" + id, id, true},
		{"shorts", "https://www.youtube.com/shorts/" + id, id, true},
		{"live", "https://www.youtube.com/live/" + id + "?feature=share", id, true},
		{"music host", "https://music.youtube.com/watch?v=" + id, id, true},
		{"surrounding whitespace", "  https://youtu.be/" + id + "\n", id, true},
		{"dash and underscore", "https://youtu.be/a-b_c-d_e-f", "a-b_c-d_e-f", true},
		{"id too short", "https://youtu.be/abc", "", false},
		{"id too long", "https://www.youtube.com/watch?v=" + id + "X", "", false},
		{"other host", "https://vimeo.com/123456789", "", false},
		{"channel page", "https://www.youtube.com/@somechannel", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractVideoIDEquivalentShapes(t *testing.T) {
	shapes := []string{
		"https://www.youtube.com/watch?v=jNQXAC9IVRw",
		"https://www.youtube.com/watch?v=jNQXAC9IVRw&ab_channel=jawed",
		"https://youtu.be/jNQXAC9IVRw",
		"https://www.youtube.com/embed/jNQXAC9IVRw?start=3",
	}
	for _, u := range shapes {
		if got, _ := ExtractVideoID(u); got != "jNQXAC9IVRw" {
			t.Errorf("ExtractVideoID(%q) = %q", u, got)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};var x`, `{"a":1}`},
		{"nested", `{"a":{"b":{}}} trailing`, `{"a":{"b":{}}}`},
		{"brace in string", `{"a":"}{"};`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"say \"}\""};`, `{"a":"say \"}\""}`},
		{"escaped backslash", `{"a":"c:\\"}, {"b":2}`, `{"a":"c:\\"}`},
		{"not an object", `[1,2]`, ``},
		{"unterminated", `{"a":1`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(extractJSON([]byte(tt.in))); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
