package service

import (
	"errors"
	"fmt"
	"time"

	"kiwilearn/internal/models"
)

// StoryService gates progress through narrative learning adventures.
// Chapter completion is the one hard precondition in the system and is
// enforced here regardless of what the client believes.
type StoryService struct {
	stories StoryRepository
	users   UserRepository
}

// NewStoryService creates a new story service
func NewStoryService(stories StoryRepository, users UserRepository) *StoryService {
	return &StoryService{stories: stories, users: users}
}

// StorySummary pairs a story with the user's progress, if any
type StorySummary struct {
	Story    models.Story              `json:"story"`
	Progress *models.UserStoryProgress `json:"progress,omitempty"`
}

// ListStories returns all active stories with the user's progress attached
func (s *StoryService) ListStories(userID string) ([]StorySummary, error) {
	stories, err := s.stories.ActiveStories()
	if err != nil {
		return nil, err
	}

	progress, err := s.stories.ProgressForUser(userID)
	if err != nil {
		return nil, err
	}

	byStory := make(map[string]*models.UserStoryProgress, len(progress))
	for i := range progress {
		byStory[progress[i].StoryID] = &progress[i]
	}

	summaries := make([]StorySummary, len(stories))
	for i, story := range stories {
		summaries[i] = StorySummary{Story: story, Progress: byStory[story.ID]}
	}
	return summaries, nil
}

// GetStory returns a story with its chapters and the user's progress
func (s *StoryService) GetStory(userID, storyID string) (*models.StoryWithChapters, error) {
	story, err := s.stories.Story(storyID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.stories.Chapters(storyID)
	if err != nil {
		return nil, err
	}

	detail := &models.StoryWithChapters{Story: *story, Chapters: chapters}

	progress, err := s.stories.Progress(userID, storyID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	detail.Progress = progress

	return detail, nil
}

// StartStory begins a story for a user, or returns the existing progress
// unchanged when called again
func (s *StoryService) StartStory(userID, storyID string) (*models.UserStoryProgress, error) {
	if _, err := s.stories.Story(storyID); err != nil {
		return nil, err
	}

	progress, err := s.stories.Progress(userID, storyID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	return s.stories.CreateProgress(userID, storyID)
}

// RecordQuestion counts one answered practice question toward the
// user's current chapter
func (s *StoryService) RecordQuestion(userID, storyID string) error {
	return s.stories.IncrementQuestions(userID, storyID)
}

// CompleteChapter marks a chapter done once its required question count
// is met. It awards the chapter's points exactly once, resets the
// question counter for the next chapter, and reports whether the whole
// story is now finished. Re-completing a chapter is a no-op.
func (s *StoryService) CompleteChapter(userID, storyID string, chapterNumber int) (bool, error) {
	chapter, err := s.stories.Chapter(storyID, chapterNumber)
	if err != nil {
		return false, err
	}

	progress, err := s.stories.Progress(userID, storyID)
	if err != nil {
		return false, err
	}

	if progress.HasCompletedChapter(chapterNumber) {
		return progress.IsCompleted, nil
	}

	if progress.QuestionsCompleted < chapter.RequiredQuestions {
		return false, fmt.Errorf("%w: %d of %d questions completed",
			models.ErrNotReady, progress.QuestionsCompleted, chapter.RequiredQuestions)
	}

	chapters, err := s.stories.Chapters(storyID)
	if err != nil {
		return false, err
	}
	lastChapter := 0
	for _, c := range chapters {
		if c.ChapterNumber > lastChapter {
			lastChapter = c.ChapterNumber
		}
	}

	progress.CompletedChapters = append(progress.CompletedChapters, chapterNumber)
	// The counter tracks the current chapter only, so it starts over
	progress.QuestionsCompleted = 0

	if chapterNumber >= lastChapter {
		now := time.Now()
		progress.IsCompleted = true
		progress.CompletedAt = &now
	} else {
		progress.CurrentChapter = chapterNumber + 1
	}

	if err := s.stories.SaveProgress(progress); err != nil {
		return false, err
	}

	if err := s.users.AddPoints(userID, chapter.RewardPoints); err != nil {
		return false, err
	}

	return progress.IsCompleted, nil
}
