package summarizer

import "fmt"

// promptTemplate instructs the model to produce a fixed two-section
// summary layout (General Summary + Section Breakdown) with [MM:SS]
// timestamp ranges. The transcript is appended at the end.
const promptTemplate = `You are a professional video content analyst. You will analyze the following YouTube transcript and produce a detailed structured summary.
You MUST follow the EXACT template and formatting rules below. No deviations are allowed.



YouTube Video Summary

General Summary

Write a detailed 2-3 paragraph overview of the video.

Focus strictly on what the creator says, demonstrates, or shows in the video.

Include the following points without interpreting, editorializing, or giving "takeaways":

The main topic or subject of the video.

Key items, products, or concepts presented.

Important demonstrations, comparisons, or examples shown.

The creator's perspective, style, or tone (e.g., conversational, enthusiastic).

Any notable features, measurements, or details emphasized in the video.

Avoid phrases like "overall conclusions," "takeaways," or "key arguments."

Present the summary in factual, descriptive language, as if reporting exactly what happens in the video.

Keep the audience in mind only insofar as the creator mentions them or it is obvious from the content.

The goal is a faithful, comprehensive overview of the video content, not an analysis or recommendation.

Section Breakdown

Create 4–8 subsections based on the flow of the transcript. For each section:

Use a descriptive subheading (never generic names like "Introduction," "Conclusion," or "Summary")

Add a timestamp range in the format: [MM:SS] - [MM:SS]

Write at least 4 sentences summarizing what was said only in that time range

Include specific details, examples, or comparisons mentioned

No interpretation, no commentary — just report what the speaker actually said

Maintain strict chronological order

CRITICAL RULES

Do not add, remove, or rename headings — only use General Summary and Section Breakdown.

Do not merge unrelated parts of the transcript — create a new subsection if the topic shifts.

Every subsection must be substantial (4+ sentences).

Every subsection must have a clear descriptive name that reflects the content.

Every timestamp range must be correct and formatted [MM:SS] - [MM:SS].

Do not shorten the general summary — always 4 full paragraphs.

No filler commentary like "This section highlights" — just describe what was said.

Here is the transcript with timestamps:

%s`

// buildPrompt renders the summarization prompt for a timestamped
// transcript.
func buildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, transcript)
}
