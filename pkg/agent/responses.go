package agent

import (
	"fmt"
	"math/rand"
)

// Canned responses for conversational prompts that do not involve a
// video. One is picked at random per reply.
var identityResponses = []string{
	"Hello! I'm a YouTube Summarizer Agent specialized in analyzing YouTube videos and creating detailed summaries with timestamps. Share a YouTube URL and I'll break it down for you!",
	"Hi there! I'm designed to summarize YouTube videos with comprehensive breakdowns and timestamps. Got a video you'd like me to analyze?",
	"I'm a YouTube video analysis agent! I create detailed summaries of YouTube content with section breakdowns and timestamps. Drop a YouTube link and let's get started!",
	"Hey! I specialize in turning YouTube videos into structured summaries with timestamps and key insights. Have a video you need summarized?",
}

var greetingResponses = []string{
	"Hello! I specialize in summarizing YouTube videos. If you have a YouTube video link you'd like me to analyze, I'd be happy to create a detailed summary for you!",
	"Hi there! I'm here to help you understand YouTube videos better through detailed summaries. Share a YouTube URL and I'll get to work!",
	"Hey! I turn YouTube videos into comprehensive summaries with timestamps. Got a video you need broken down?",
	"Hello! I analyze YouTube content and create structured summaries. Drop a YouTube link and I'll provide you with a detailed breakdown!",
}

var generalResponses = []string{
	"I specialize in YouTube video analysis and summarization. While I can't help with general questions, I'd love to summarize any YouTube video you share!",
	"I'm focused on creating detailed YouTube video summaries. For other topics, you might want to try a different agent, but I'm great with YouTube content!",
	"My expertise is in analyzing and summarizing YouTube videos with timestamps and breakdowns. Got a video link you'd like me to work on?",
}

// promptType classifies a conversational prompt.
type promptType string

const (
	promptIdentity promptType = "identity"
	promptGreeting promptType = "greeting"
	promptGeneral  promptType = "general"
)

// greetingResponse picks a random canned response for the prompt type.
func greetingResponse(pt promptType) string {
	switch pt {
	case promptIdentity:
		return identityResponses[rand.Intn(len(identityResponses))]
	case promptGreeting:
		return greetingResponses[rand.Intn(len(greetingResponses))]
	default:
		return generalResponses[rand.Intn(len(generalResponses))]
	}
}

// Status messages emitted before the response body.
const (
	statusThinking   = "Thinking about your query..."
	statusGenerating = "Transcript extracted successfully. Generating summary..."
)

const invalidURLDetails = `**This could be due to:**
- Malformed or incomplete YouTube URL
- Missing characters in the video ID
- URL format not recognized

**Please:**
- Double-check the YouTube URL is correct and complete
- Ensure the full video ID is included (11 characters)

**Valid YouTube URL formats:**
- https://youtube.com/watch?v=VIDEO_ID
- https://youtu.be/VIDEO_ID
- https://youtube.com/embed/VIDEO_ID`

const transcriptErrorDetails = `

**This could be due to:**
- Video doesn't have English captions/subtitles
- Video is private or age restricted
- Captions are disabled

**Please try:**
- A different video with English captions
- Ensuring the video is publicly accessible
- Waiting a moment and trying again`

const securityErrorDetails = `

**For your security:**
- Malicious patterns were detected in your input
- Please revise your request and try again
- If you believe this is an error, please contact support`

// formatError renders an error heading with optional details.
func formatError(message, details string) string {
	if details != "" {
		return fmt.Sprintf(" **%s**\n\n%s", message, details)
	}
	return fmt.Sprintf(" **%s**", message)
}
