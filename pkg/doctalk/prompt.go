package doctalk

import "strings"

// scriptPromptBody is the two-host script instruction shared by every
// source type.
const scriptPromptBody = `into a natural, engaging, and extensive podcast script featuring a conversation between **two hosts**.
Go through each page of the document and extract the insights to create the podcast script. Do not miss any pages while creating the podcast script.
The dialogue should flow naturally, with dynamic interaction between the hosts, including pauses, gaps, and natural breaks,
to make the conversation feel lively and authentic—perfect for an audio format.
The conversation should be lively, dynamic, and keep the listener's attention, with smooth transitions and natural pauses.

### Key Instructions:
1. **Summarize the article in one sentence** and make that the podcast **title**.
2. **Introduction** Always have the first line of the Podcast script as "Welcome to the DocTalk show! I’m Rachel, and my co-host Tom, here to dive into the fascinating world of documents and articles, bringing them to life as engaging DocTalk conversations."
2. **Mention the podcast title** at the beginning of the script and throughout the conversation where appropriate. Make sure it feels integrated naturally, not forced.
3. **Ensure that the core message and essence** of the original content are preserved while adapting it into a dialogue. Every important point in the document must be covered, with a balance between thoroughness and natural conversation flow.
4. **Format**: Use dialogue between **Speaker 1** and **Speaker 2**. Don't mention the speaker names in the script. Alternate between them in a way that keeps the conversation dynamic and engaging.
5. **Pacing**: Include natural pauses, slight pauses, and breaks to make the conversation sound authentic and suited for an audio format.
6. Avoid using words like 'pause,' 'wrapping up,' 'interjecting,' 'enthusiastically,' or any other terms that describe actions or tones

### Example Format:
**Title:** [Podcast Title]
**Speaker 1:** Welcome back to [Podcast Title].
**Speaker 2:** Thanks for joining us. Today, we’ll be discussing [main point of the document].
**Speaker 1:** That's right. We'll explore [main point] in more detail here on [Podcast Title].
**Speaker 2:** This is an important topic to explore. Let’s dive in.

Feel free to adapt the tone based on the subject matter, whether it’s more casual and friendly or informative and serious. Ensure the script reads as a natural conversation, with both hosts actively engaging with each other and maintaining a lively flow.`

// ScriptPrompt builds the script generation prompt for one episode.
//
// A URL source names the article's origin and carries the extracted
// text inline; a document source relies on the document block attached
// to the model request. An optional user prompt is appended last so it
// can override the defaults.
func ScriptPrompt(source Source, url, articleText, userPrompt string) string {
	var b strings.Builder
	switch source {
	case SourceURL:
		b.WriteString("Convert the provided article contents from " + url + " ")
	case SourceDocument:
		b.WriteString("Convert the provided document content ")
	}
	b.WriteString(scriptPromptBody)

	if articleText != "" {
		b.WriteString("\n\nArticle contents:\n\n" + articleText)
	}
	if userPrompt != "" {
		b.WriteString("\n\nAdditional Prompt: " + userPrompt)
	}
	return b.String()
}

// ImagePrompt builds the cover image prompt for an episode title.
func ImagePrompt(title string) string {
	return "Generate an image for: " + title
}
