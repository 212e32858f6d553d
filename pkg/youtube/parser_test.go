package youtube

import "testing"

func TestFindURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "watch URL in sentence",
			text: "please summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ for me",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "short URL",
			text: "check this out https://youtu.be/dQw4w9WgXcQ",
			want: "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name: "embed URL",
			text: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "http without www",
			text: "http://youtube.com/watch?v=dQw4w9WgXcQ",
			want: "http://youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "watch URL with extra params",
			text: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s trailing",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		},
		{
			name: "no URL",
			text: "hello, what can you do?",
			want: "",
		},
		{
			name: "non-youtube URL",
			text: "https://vimeo.com/123456789",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindURL(tt.text); got != tt.want {
				t.Errorf("FindURL(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "standard watch URL",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short URL",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "embed URL",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "v param not first",
			url:  "https://www.youtube.com/watch?list=PLx&v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "trailing params ignored",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "no video ID",
			url:  "https://www.youtube.com/feed/subscriptions",
			want: "",
		},
		{
			name: "ID too short",
			url:  "https://youtu.be/short",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
