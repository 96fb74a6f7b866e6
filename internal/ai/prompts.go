package ai

import (
	"strings"
	"text/template"
)

var (
	extractTextPrompt = template.Must(template.New("extract").Parse(
		`You are an expert at extracting text from documents.
Please extract all the text from the attached PDF file.
Return only the extracted text, in reading order, with no commentary.`))

	notesPrompt = template.Must(template.New("notes").Parse(
		`You are an expert academic assistant, skilled at creating high-quality, structured notes from a given document.

Please generate comprehensive notes from the following document text. The notes should be well-organized and easy to study from.

Structure the notes in the following way:
1. Identify Key Topics: first, identify the main topics or chapters in the document.
2. Extract Main Points: for each topic, list the most important points, concepts, or arguments.
3. Provide Explanations: briefly explain each main point, providing context and clarity.
4. Highlight Important Information: use markdown formatting (**bold** for key terms, *italics* for emphasis) for what a student must remember.
5. Use headings and bullet points to create a clear hierarchy.

Return ONLY the Markdown notes. DO NOT wrap your response in code fences.

Document Text: {{.DocumentText}}`))

	flashcardsPrompt = template.Must(template.New("flashcards").Parse(
		`You are an expert educator who helps students learn by creating flashcards from study material.

Given the following document text, create a set of flashcards that cover the most important concepts.
Each flashcard should have a question or term on the front and the corresponding answer or definition on the back.
Ensure that the flashcards are clear, concise, and helpful for memorization.

Return ONLY valid JSON in exactly this shape, no markdown code blocks, no explanations:
{
  "flashcards": [
    {"front": "What is the capital of France?", "back": "Paris"},
    {"front": "What is the chemical symbol for water?", "back": "H2O"}
  ]
}

Document Text: {{.DocumentText}}`))

	quizPrompt = template.Must(template.New("quiz").Parse(
		`You are an expert in creating quizzes from provided documents. Based on the content of the document, generate a quiz with multiple-choice questions that effectively tests the user's understanding of the material.

Return ONLY valid JSON in exactly this shape, no markdown code blocks, no explanations:
{"quiz": {"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]}}

RULES:
- every question has exactly 4 distinct options
- answer is copied verbatim from options

Document Content: {{.DocumentText}}

Quiz:`))

	explainPrompt = template.Must(template.New("explain").Parse(
		`You are an expert educator providing feedback on a quiz. The user has answered a question incorrectly. Your task is to provide a clear and concise explanation.

The user was asked the following question:
"{{.Question}}"

The options were:
{{range .Options}}- {{.}}
{{end}}
The user answered: "{{.UserAnswer}}"
The correct answer is: "{{.CorrectAnswer}}"

Please explain why the user's answer is incorrect and why the correct answer is right. Keep the explanation easy to understand and focused on the core concept.`))
)

type documentInput struct {
	DocumentText string
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
