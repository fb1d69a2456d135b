// Package questions talks to the OpenAI API to generate curriculum-aligned
// practice questions and mark submitted answers. Both operations report
// failures as ErrUpstreamUnavailable so callers can fall back locally.
package questions

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"kiwilearn/internal/models"
)

const generatorSystemPrompt = "You are an expert New Zealand primary school teacher creating engaging practice questions. Respond with JSON only."

const validatorSystemPrompt = "You are an encouraging New Zealand primary school teacher marking a student's answer. Respond with JSON only."

// OpenAIService generates questions and validates answers via the
// OpenAI chat completions API
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService creates a question service. With an empty API key the
// service is disabled and every call reports the upstream as unavailable,
// which routes callers onto the built-in fallbacks.
func NewOpenAIService(apiKey, model string) *OpenAIService {
	s := &OpenAIService{model: model}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Generate produces one question for the subject, year level and difficulty
func (s *OpenAIService) Generate(ctx context.Context, subject models.Subject, yearLevel int, topic string, level models.Difficulty) (*models.GeneratedQuestion, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: question generator not configured", models.ErrUpstreamUnavailable)
	}

	prompt := buildGeneratePrompt(subject, yearLevel, topic, level)

	content, err := s.complete(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	var q models.GeneratedQuestion
	if err := json.Unmarshal([]byte(content), &q); err != nil {
		return nil, fmt.Errorf("%w: malformed generator response: %v", models.ErrUpstreamUnavailable, err)
	}
	if q.Question == "" || q.CorrectAnswer == "" {
		return nil, fmt.Errorf("%w: generator returned empty question", models.ErrUpstreamUnavailable)
	}
	if !q.Difficulty.Valid() {
		q.Difficulty = level
	}

	return &q, nil
}

// Validate marks a submitted answer and writes child-friendly feedback
func (s *OpenAIService) Validate(ctx context.Context, question, correctAnswer, userAnswer string, subject models.Subject) (*models.ValidationResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: answer validator not configured", models.ErrUpstreamUnavailable)
	}

	prompt := fmt.Sprintf(`A New Zealand primary student answered a %s question.

Question: %s
Correct answer: %s
Student's answer: %s

Decide whether the student's answer is correct, accepting reasonable
variations in wording, spacing and number formatting. Write one or two
sentences of warm, encouraging feedback suitable for a child.

Return a JSON object with:
{
  "isCorrect": true or false,
  "feedback": "the feedback"
}`, subject, question, correctAnswer, userAnswer)

	content, err := s.complete(ctx, validatorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	var result models.ValidationResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed validator response: %v", models.ErrUpstreamUnavailable, err)
	}
	if result.Feedback == "" {
		return nil, fmt.Errorf("%w: validator returned empty feedback", models.ErrUpstreamUnavailable)
	}

	return &result, nil
}

func (s *OpenAIService) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildGeneratePrompt(subject models.Subject, yearLevel int, topic string, level models.Difficulty) string {
	prompt := fmt.Sprintf("Generate a single %s practice question for a New Zealand Year %d student.\n", subject, yearLevel)
	if topic != "" {
		prompt += fmt.Sprintf("Topic: %s\n", topic)
	}
	prompt += fmt.Sprintf("Difficulty Level: %s - %s\n", level, difficultyGuidance(level))
	prompt += fmt.Sprintf(`
Requirements:
- Aligned with New Zealand curriculum for Year %d
- Age-appropriate and engaging for children
- Clear and concise question
- Definitive correct answer

Return a JSON object with:
{
  "question": "the practice question",
  "correctAnswer": "the correct answer",
  "topic": "specific topic (e.g., 'addition', 'reading comprehension')",
  "difficulty": "%s"
}`, yearLevel, level)
	return prompt
}

func difficultyGuidance(level models.Difficulty) string {
	switch level {
	case models.DifficultyEasy:
		return "Make this question easier than typical for this year level. Use simple vocabulary and straightforward concepts."
	case models.DifficultyHard:
		return "Make this question more challenging than typical for this year level. Include multi-step thinking or advanced concepts."
	default:
		return "Make this question at a typical difficulty level for this year."
	}
}
