package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// StoryRepository handles story content and per-user progress operations
type StoryRepository struct {
	db database.DBTX
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db database.DBTX) *StoryRepository {
	return &StoryRepository{db: db}
}

// chaptersToString converts completed chapter numbers to a comma-separated
// string for portable storage across the supported SQL engines
func chaptersToString(chapters []int) string {
	parts := make([]string, len(chapters))
	for i, n := range chapters {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// parseChapterString parses the stored comma-separated chapter numbers
func parseChapterString(s string) []int {
	if s == "" {
		return nil
	}

	var chapters []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil {
			chapters = append(chapters, n)
		}
	}
	return chapters
}

// ActiveStories retrieves all active stories in display order
func (r *StoryRepository) ActiveStories() ([]models.Story, error) {
	query := `
		SELECT id, title, description, subject, min_year_level, max_year_level,
		       difficulty, is_active, display_order, created_at
		FROM stories
		WHERE is_active = ?
		ORDER BY display_order ASC
	`
	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var s models.Story
		err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.Subject, &s.MinYearLevel,
			&s.MaxYearLevel, &s.Difficulty, &s.IsActive, &s.DisplayOrder, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}

	return stories, rows.Err()
}

// Story retrieves one story by ID
func (r *StoryRepository) Story(id string) (*models.Story, error) {
	query := `
		SELECT id, title, description, subject, min_year_level, max_year_level,
		       difficulty, is_active, display_order, created_at
		FROM stories
		WHERE id = ?
	`
	s := &models.Story{}
	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.Subject, &s.MinYearLevel,
		&s.MaxYearLevel, &s.Difficulty, &s.IsActive, &s.DisplayOrder, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Chapters retrieves a story's chapters in order
func (r *StoryRepository) Chapters(storyID string) ([]models.Chapter, error) {
	query := `
		SELECT id, story_id, chapter_number, title, narrative, objective_description,
		       required_questions, subject, difficulty, reward_points
		FROM chapters
		WHERE story_id = ?
		ORDER BY chapter_number ASC
	`
	rows, err := r.db.Query(query, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var c models.Chapter
		err := rows.Scan(
			&c.ID, &c.StoryID, &c.ChapterNumber, &c.Title, &c.Narrative,
			&c.ObjectiveDescription, &c.RequiredQuestions, &c.Subject,
			&c.Difficulty, &c.RewardPoints)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}

// Chapter retrieves one chapter of a story by number
func (r *StoryRepository) Chapter(storyID string, chapterNumber int) (*models.Chapter, error) {
	query := `
		SELECT id, story_id, chapter_number, title, narrative, objective_description,
		       required_questions, subject, difficulty, reward_points
		FROM chapters
		WHERE story_id = ? AND chapter_number = ?
	`
	c := &models.Chapter{}
	err := r.db.QueryRow(query, storyID, chapterNumber).Scan(
		&c.ID, &c.StoryID, &c.ChapterNumber, &c.Title, &c.Narrative,
		&c.ObjectiveDescription, &c.RequiredQuestions, &c.Subject,
		&c.Difficulty, &c.RewardPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chapter %d of story %s: %w", chapterNumber, storyID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

const progressColumns = `id, user_id, story_id, current_chapter, completed_chapters,
		questions_completed, is_completed, started_at, completed_at, updated_at`

// Progress retrieves a user's progress for one story
func (r *StoryRepository) Progress(userID, storyID string) (*models.UserStoryProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_story_progress WHERE user_id = ? AND story_id = ?`

	progress, err := scanProgress(r.db.QueryRow(query, userID, storyID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress for story %s: %w", storyID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// CreateProgress starts story progress at chapter one and returns it
func (r *StoryRepository) CreateProgress(userID, storyID string) (*models.UserStoryProgress, error) {
	now := time.Now()
	progress := &models.UserStoryProgress{
		ID:             uuid.NewString(),
		UserID:         userID,
		StoryID:        storyID,
		CurrentChapter: 1,
		StartedAt:      now,
		UpdatedAt:      now,
	}

	query := `
		INSERT INTO user_story_progress
		(id, user_id, story_id, current_chapter, completed_chapters, questions_completed, is_completed, started_at, updated_at)
		VALUES (?, ?, ?, 1, '', 0, ?, ?, ?)
	`
	_, err := r.db.Exec(query, progress.ID, userID, storyID, false, now, now)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// IncrementQuestions bumps the current chapter's question counter by one
// as a single atomic update
func (r *StoryRepository) IncrementQuestions(userID, storyID string) error {
	query := `
		UPDATE user_story_progress
		SET questions_completed = questions_completed + 1, updated_at = ?
		WHERE user_id = ? AND story_id = ?
	`
	result, err := r.db.Exec(query, time.Now(), userID, storyID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("progress for story %s: %w", storyID, models.ErrNotFound)
	}
	return nil
}

// SaveProgress writes chapter completion state back to the progress row
func (r *StoryRepository) SaveProgress(p *models.UserStoryProgress) error {
	query := `
		UPDATE user_story_progress
		SET current_chapter = ?, completed_chapters = ?, questions_completed = ?,
		    is_completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`
	var completedAt interface{}
	if p.CompletedAt != nil {
		completedAt = *p.CompletedAt
	}

	_, err := r.db.Exec(query,
		p.CurrentChapter, chaptersToString(p.CompletedChapters), p.QuestionsCompleted,
		p.IsCompleted, completedAt, time.Now(), p.ID)
	return err
}

// ProgressForUser retrieves all story progress rows for a user
func (r *StoryRepository) ProgressForUser(userID string) ([]models.UserStoryProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_story_progress WHERE user_id = ?`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []models.UserStoryProgress
	for rows.Next() {
		var p models.UserStoryProgress
		var completedChapters string
		var completedAt sql.NullTime

		err := rows.Scan(
			&p.ID, &p.UserID, &p.StoryID, &p.CurrentChapter, &completedChapters,
			&p.QuestionsCompleted, &p.IsCompleted, &p.StartedAt, &completedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}

		p.CompletedChapters = parseChapterString(completedChapters)
		if completedAt.Valid {
			p.CompletedAt = &completedAt.Time
		}
		all = append(all, p)
	}

	return all, rows.Err()
}

// CountCompleted counts how many stories a user has finished, for
// story-category achievements
func (r *StoryRepository) CountCompleted(userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM user_story_progress
		WHERE user_id = ? AND is_completed = ?
	`
	var count int
	err := r.db.QueryRow(query, userID, true).Scan(&count)
	return count, err
}

func scanProgress(row *sql.Row) (*models.UserStoryProgress, error) {
	p := &models.UserStoryProgress{}
	var completedChapters string
	var completedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.UserID, &p.StoryID, &p.CurrentChapter, &completedChapters,
		&p.QuestionsCompleted, &p.IsCompleted, &p.StartedAt, &completedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.CompletedChapters = parseChapterString(completedChapters)
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return p, nil
}
