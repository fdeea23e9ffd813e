// Package compose builds the prompt text sent to the backend and applies the
// corrective post-processing rules to generated replies.
package compose

import (
	"fmt"
	"strings"
	"unicode"
)

const summaryPromptTemplate = `Please summarize the following email IN 40 WORDS OR LESS, concisely. The email might include html tags or other content. Do your best to interpret this, and provide only the summary without any leading text or explanation of what it is. I dont want an interpretation of the HTML, I was a summary of what a website with that HTML might be trying to tell me. LIMIT YOUR RESPONSE TO 40 WORDS. THIS IS CRITICAL.:

%s

Summary:`

// SummaryPrompt wraps email content in the summarization instruction. The
// 40-word cap is instruction text only; the service does not enforce it.
func SummaryPrompt(content string) string {
	return fmt.Sprintf(summaryPromptTemplate, content)
}

// ReplyParams carries everything the reply prompt embeds.
type ReplyParams struct {
	Subject        string
	Content        string
	Sender         string
	UserEmail      string
	RecipientName  string
	RecipientEmail string
}

// ReplyPrompt builds the structured reply-generation prompt. Name resolution
// follows RecipientName and SignerName.
func ReplyPrompt(p ReplyParams) string {
	return fmt.Sprintf(`Generate a professional and friendly reply to the following email. The reply should be contextual, addressing the main points or questions in the original email. Keep the tone professional but warm. Include a greeting and sign-off.

Original Email Subject: %s
Original Email Content: %s
Original Email Sender: %s
My Email Address: %s
Recipient Name: %s
Recipient Email: %s

Your reply should:
1. Acknowledge the email
2. Address the main points or questions
3. Be concise (3-5 sentences)
4. End with a professional sign-off using my name (%s)

Reply:`,
		p.Subject, p.Content, p.Sender, p.UserEmail,
		RecipientName(p.RecipientName, p.Sender), p.RecipientEmail,
		SignerName(p.UserEmail))
}

// RecipientName resolves the name used to greet the other party: an explicit
// recipientName wins, otherwise the display-name portion of the sender header
// (text before '<', trimmed). Empty when neither yields a name.
func RecipientName(recipientName, sender string) string {
	if recipientName != "" {
		return recipientName
	}
	if sender == "" {
		return ""
	}
	name, _, _ := strings.Cut(sender, "<")
	return strings.TrimSpace(name)
}

// SignerName derives the reply signer from the local part of the user's email
// address, capitalized. Defaults to "Me".
func SignerName(userEmail string) string {
	local, _, found := strings.Cut(userEmail, "@")
	if !found || local == "" {
		return "Me"
	}
	return capitalize(local)
}

// Greeting returns the synthesized greeting line for a resolved name.
func Greeting(name string) string {
	if name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

// EnsureGreeting prepends a greeting line when the generated reply does not
// already open with one.
func EnsureGreeting(reply, name string) string {
	for _, token := range []string{"Hi", "Hello", "Dear"} {
		if strings.HasPrefix(reply, token) {
			return reply
		}
	}
	return Greeting(name) + "\n\n" + reply
}

// EnsureSignoff appends a sign-off when the generated reply contains no
// closing token (regards, sincerely, best; case-insensitive).
func EnsureSignoff(reply, signer string) string {
	lower := strings.ToLower(reply)
	for _, token := range []string{"regards", "sincerely", "best"} {
		if strings.Contains(lower, token) {
			return reply
		}
	}
	return reply + "\n\nBest regards,\n" + signer
}

// capitalize uppercases the first rune and lowercases the rest, so
// "bob" and "BOB" both become "Bob".
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
