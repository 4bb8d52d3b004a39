package ai

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

const systemInstruction = "You are StudyMate, a friendly and encouraging AI study companion. " +
	"Keep answers concise and clearly formatted with bullet points. Rules:\n" +
	"1. If asked who made or developed you, reply: 'I was made by Sandeep Bhalerao'. Do not mention Google.\n" +
	"2. When an image is provided, analyze it to help the student learn.\n" +
	"3. Safety and parental control: if the input is inappropriate, sexually explicit, dangerous, " +
	"indicates self-harm, or the conversation becomes emotionally unhealthy or unrelated to studying, " +
	"start your reply with `[[FLAGGED: Reason]]` (for example `[[FLAGGED: Inappropriate Topic]]`) " +
	"and then give a firm but safe redirecting answer."

const defaultImageQuestion = "Explain this image"

func QuizPrompt(topic, difficulty string) string {
	return fmt.Sprintf("Create a %s level quiz about %q with 5 multiple choice questions.", difficulty, topic)
}

func FlashcardsPrompt(topic string, count int) string {
	return fmt.Sprintf("Create %d flashcards for the topic: %q.\n"+
		"'Front' should be a key term or concept.\n"+
		"'Back' should be a concise definition or explanation (max 20 words).", count, topic)
}

func RoadmapPrompt(goal, duration string) string {
	return fmt.Sprintf("Create a step-by-step study roadmap to learn %q in %q.\n"+
		"Break it down into logical milestones.", goal, duration)
}

func SuggestionsPrompt(input string) string {
	return fmt.Sprintf("Given the user's partial input %q for a study question, suggest 3 likely complete questions they might ask. "+
		"Return only the questions as a JSON array of strings.", input)
}

func SummaryPrompt(text string) string {
	return "Summarize the following study notes into clear, easy-to-memorize bullet points. Highlight key terms in bold:\n\n" + text
}

func BoardGuidePrompt(classLevel, subject string) string {
	return fmt.Sprintf("Create a comprehensive Board Exam Cheat Sheet for Class %s %s.\n"+
		"Focus specifically on:\n"+
		"1. Important years and dates and their significance (timeline format).\n"+
		"2. Key events or formulas that are frequently asked.\n"+
		"3. 3 high-value tips for the board exam.\n"+
		"Format nicely with Markdown headers and bullet points.", classLevel, subject)
}

func DetailedNotesPrompt(topic string) string {
	return fmt.Sprintf("Provide extremely detailed, deep-dive study notes on the topic: %q.\n"+
		"These are premium extra notes for a student who wants to master the subject.\n"+
		"Include:\n"+
		"- Comprehensive definitions.\n"+
		"- Historical context or derivation.\n"+
		"- Complex examples and scenarios.\n"+
		"- Common misconceptions.\n"+
		"- Advanced concepts related to this topic.\n"+
		"Format with clear Markdown, using headers, lists, and bold text.", topic)
}

func ImagePrompt(prompt string) string {
	return fmt.Sprintf("A clear, educational illustration, diagram, or realistic depiction explaining: %s. High quality, suitable for a textbook.", prompt)
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func QuizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": stringSchema(),
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":            stringSchema(),
						"question":      stringSchema(),
						"options":       {Type: genai.TypeArray, Items: stringSchema()},
						"correctAnswer": stringSchema(),
						"explanation":   stringSchema(),
					},
					Required: []string{"id", "question", "options", "correctAnswer", "explanation"},
				},
			},
		},
		Required: []string{"topic", "questions"},
	}
}

func FlashcardsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"front": stringSchema(),
				"back":  stringSchema(),
			},
			Required: []string{"front", "back"},
		},
	}
}

func RoadmapSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString, Description: "Title of the milestone (e.g. Week 1: Basics)"},
				"duration":    {Type: genai.TypeString, Description: "Estimated time for this step"},
				"description": {Type: genai.TypeString, Description: "What to study in this step"},
				"keyTopics": {
					Type:        genai.TypeArray,
					Items:       stringSchema(),
					Description: "3-4 specific concepts",
				},
			},
			Required: []string{"title", "duration", "description", "keyTopics"},
		},
	}
}

func SuggestionsSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}
