// Package youtube provides URL detection and video ID extraction for the
// YouTube link formats the agent accepts (watch, short youtu.be, embed).
package youtube

import "regexp"

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?[^\s]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtu\.be/[^\s]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/embed/[^\s]+`),
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

// FindURL returns the first YouTube URL found in text, or "" if none.
func FindURL(text string) string {
	for _, p := range urlPatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL.
// Returns "" if the URL does not contain a recognizable video ID.
func ExtractVideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
