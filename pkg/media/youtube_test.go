package media

import "testing"

func TestYouTubeVideoID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url without www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"music subdomain", "https://music.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile subdomain", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not a url", "not-a-url", ""},
		{"empty", "", ""},
		{"wrong host", "https://vimeo.com/123456789", ""},
		{"id with separator", "dQw4w9WgXc/", ""},
		{"too short", "dQw4w9Wg", ""},
		{"watch url with bad id", "https://www.youtube.com/watch?v=short", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := YouTubeVideoID(tc.input); got != tc.want {
				t.Fatalf("YouTubeVideoID(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
