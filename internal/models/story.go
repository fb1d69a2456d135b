package models

import "time"

// Story is a narrative learning adventure made of ordered chapters.
// Static content, never user-mutated.
type Story struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Subject      string     `json:"subject"` // "maths", "english" or "both"
	MinYearLevel int        `json:"minYearLevel"`
	MaxYearLevel int        `json:"maxYearLevel"`
	Difficulty   Difficulty `json:"difficulty"`
	IsActive     bool       `json:"isActive"`
	DisplayOrder int        `json:"displayOrder"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Chapter is one step of a story, gated on a required question count
type Chapter struct {
	ID                   string     `json:"id"`
	StoryID              string     `json:"storyId"`
	ChapterNumber        int        `json:"chapterNumber"`
	Title                string     `json:"title"`
	Narrative            string     `json:"narrative"`
	ObjectiveDescription string     `json:"objectiveDescription"`
	RequiredQuestions    int        `json:"requiredQuestions"`
	Subject              Subject    `json:"subject"`
	Difficulty           Difficulty `json:"difficulty"`
	RewardPoints         int        `json:"rewardPoints"`
}

// UserStoryProgress tracks one user's progress through one story.
// QuestionsCompleted counts toward the current chapter only and resets
// to zero when a chapter completes.
type UserStoryProgress struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	StoryID            string     `json:"storyId"`
	CurrentChapter     int        `json:"currentChapter"`
	CompletedChapters  []int      `json:"completedChapters"`
	QuestionsCompleted int        `json:"questionsCompleted"`
	IsCompleted        bool       `json:"isCompleted"`
	StartedAt          time.Time  `json:"startedAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// HasCompletedChapter reports whether the chapter number is already in
// the completed set
func (p *UserStoryProgress) HasCompletedChapter(chapterNumber int) bool {
	for _, n := range p.CompletedChapters {
		if n == chapterNumber {
			return true
		}
	}
	return false
}

// StoryWithChapters is the story detail read model
type StoryWithChapters struct {
	Story    Story              `json:"story"`
	Chapters []Chapter          `json:"chapters"`
	Progress *UserStoryProgress `json:"progress,omitempty"`
}
