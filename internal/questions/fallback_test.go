package questions

import (
	"strconv"
	"strings"
	"testing"

	"kiwilearn/internal/models"
)

func TestFallbackMathsQuestionIsConsistent(t *testing.T) {
	for i := 0; i < 20; i++ {
		q := Fallback(models.SubjectMaths)

		if !strings.HasPrefix(q.Question, "What is 5 + ") {
			t.Fatalf("unexpected question: %q", q.Question)
		}

		addendStr := strings.TrimSuffix(strings.TrimPrefix(q.Question, "What is 5 + "), "?")
		addend, err := strconv.Atoi(addendStr)
		if err != nil {
			t.Fatalf("could not parse addend from %q: %v", q.Question, err)
		}

		want := strconv.Itoa(5 + addend)
		if q.CorrectAnswer != want {
			t.Errorf("answer %q does not match question %q", q.CorrectAnswer, q.Question)
		}
	}
}

func TestFallbackEnglishQuestion(t *testing.T) {
	q := Fallback(models.SubjectEnglish)

	if q.CorrectAnswer != "ran" {
		t.Errorf("expected answer 'ran', got %q", q.CorrectAnswer)
	}
	if q.Topic != "grammar" {
		t.Errorf("expected topic 'grammar', got %q", q.Topic)
	}
}

func TestFallbackValidate(t *testing.T) {
	tests := []struct {
		name          string
		correctAnswer string
		userAnswer    string
		wantCorrect   bool
	}{
		{"exact match", "ran", "ran", true},
		{"case insensitive", "Ran", "rAN", true},
		{"trims whitespace", "42", "  42  ", true},
		{"wrong answer", "ran", "runned", false},
		{"empty answer", "ran", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackValidate(tt.correctAnswer, tt.userAnswer)
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("FallbackValidate(%q, %q).IsCorrect = %v, want %v",
					tt.correctAnswer, tt.userAnswer, result.IsCorrect, tt.wantCorrect)
			}
			if result.Feedback == "" {
				t.Error("expected non-empty feedback")
			}
		})
	}
}
