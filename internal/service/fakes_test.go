package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"kiwilearn/internal/models"
)

// In-memory fakes of the repository interfaces for service tests

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetUser(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpsertUser(u *models.User) (*models.User, error) {
	existing, ok := r.users[u.ID]
	if ok {
		existing.Email = u.Email
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		copied := *existing
		return &copied, nil
	}
	created := *u
	created.Role = models.RoleStudent
	created.YearLevel = 1
	created.MathsDifficulty = models.DifficultyMedium
	created.EnglishDifficulty = models.DifficultyMedium
	r.users[u.ID] = &created
	copied := created
	return &copied, nil
}

func (r *fakeUserRepo) UpdateStats(userID string, pointsDelta, currentStreak, longestStreak int, lastPracticeDate time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.TotalPoints += pointsDelta
	u.CurrentStreak = currentStreak
	u.LongestStreak = longestStreak
	u.LastPracticeDate = &lastPracticeDate
	return nil
}

func (r *fakeUserRepo) UpdateDifficulty(userID string, subject models.Subject, level models.Difficulty, accuracy int) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	if subject == models.SubjectMaths {
		u.MathsDifficulty = level
		u.MathsAccuracyRecent = accuracy
	} else {
		u.EnglishDifficulty = level
		u.EnglishAccuracyRecent = accuracy
	}
	return nil
}

func (r *fakeUserRepo) AddPoints(userID string, delta int) error {
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.TotalPoints += delta
	return nil
}

func (r *fakeUserRepo) SpendPoints(userID string, cost int) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, models.ErrNotFound
	}
	if u.TotalPoints < cost {
		return false, nil
	}
	u.TotalPoints -= cost
	return true, nil
}

type fakeSessionRepo struct {
	sessions  map[string]*models.PracticeSession
	questions map[string][]models.SessionQuestion
	nextID    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:  make(map[string]*models.PracticeSession),
		questions: make(map[string][]models.SessionQuestion),
	}
}

func (r *fakeSessionRepo) Create(userID string, subject models.Subject, yearLevel int) (*models.PracticeSession, error) {
	r.nextID++
	session := &models.PracticeSession{
		ID:        fmt.Sprintf("session-%d", r.nextID),
		UserID:    userID,
		Subject:   subject,
		YearLevel: yearLevel,
		CreatedAt: time.Now(),
	}
	r.sessions[session.ID] = session
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Get(id string) (*models.PracticeSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) RecordAnswer(sessionID string, correct bool, points int) error {
	s, ok := r.sessions[sessionID]
	if !ok || s.CompletedAt != nil {
		return models.ErrNotFound
	}
	s.QuestionsAttempted++
	if correct {
		s.QuestionsCorrect++
	}
	s.PointsEarned += points
	return nil
}

func (r *fakeSessionRepo) AddQuestion(q *models.SessionQuestion) error {
	r.questions[q.SessionID] = append(r.questions[q.SessionID], *q)
	return nil
}

func (r *fakeSessionRepo) Complete(id string, at time.Time) (bool, error) {
	s, ok := r.sessions[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if s.CompletedAt != nil {
		return false, nil
	}
	s.CompletedAt = &at
	return true, nil
}

func (r *fakeSessionRepo) RecentBySubject(userID string, subject models.Subject, limit int) ([]models.PracticeSession, error) {
	var result []models.PracticeSession
	for _, s := range r.sessions {
		if s.UserID == userID && s.Subject == subject && s.CompletedAt != nil {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CompletedAt.After(*result[j].CompletedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeSessionRepo) Recent(userID string, limit int) ([]models.PracticeSession, error) {
	var result []models.PracticeSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeSessionRepo) All(userID string) ([]models.PracticeSession, error) {
	return r.Recent(userID, len(r.sessions))
}

func (r *fakeSessionRepo) Questions(sessionID string) ([]models.SessionQuestion, error) {
	return r.questions[sessionID], nil
}

func (r *fakeSessionRepo) UserAggregates(userID string) (int, int, int, error) {
	var completed, attempted, correct int
	for _, s := range r.sessions {
		if s.UserID != userID || s.CompletedAt == nil {
			continue
		}
		completed++
		attempted += s.QuestionsAttempted
		correct += s.QuestionsCorrect
	}
	return completed, attempted, correct, nil
}

type fakeAchievementRepo struct {
	catalog  []models.Achievement
	unlocked map[string]map[string]bool // userID -> achievementID
}

func newFakeAchievementRepo(catalog ...models.Achievement) *fakeAchievementRepo {
	return &fakeAchievementRepo{
		catalog:  catalog,
		unlocked: make(map[string]map[string]bool),
	}
}

func (r *fakeAchievementRepo) All() ([]models.Achievement, error) {
	return r.catalog, nil
}

func (r *fakeAchievementRepo) ForUser(userID string) ([]models.UserAchievementWithDetails, error) {
	var result []models.UserAchievementWithDetails
	for _, a := range r.catalog {
		if r.unlocked[userID][a.ID] {
			result = append(result, models.UserAchievementWithDetails{Achievement: a})
		}
	}
	return result, nil
}

func (r *fakeAchievementRepo) Unlock(userID, achievementID string) error {
	if r.unlocked[userID] == nil {
		r.unlocked[userID] = make(map[string]bool)
	}
	r.unlocked[userID][achievementID] = true
	return nil
}

func (r *fakeAchievementRepo) unlockedCount(userID string) int {
	return len(r.unlocked[userID])
}

type fakePetRepo struct {
	pets map[string]*models.Pet // keyed by userID
}

func newFakePetRepo(pets ...*models.Pet) *fakePetRepo {
	repo := &fakePetRepo{pets: make(map[string]*models.Pet)}
	for _, p := range pets {
		repo.pets[p.UserID] = p
	}
	return repo
}

func (r *fakePetRepo) Create(pet *models.Pet) error {
	copied := *pet
	r.pets[pet.UserID] = &copied
	return nil
}

func (r *fakePetRepo) ByUserID(userID string) (*models.Pet, error) {
	p, ok := r.pets[userID]
	if !ok {
		return nil, fmt.Errorf("pet for user %s: %w", userID, models.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (r *fakePetRepo) find(petID string) *models.Pet {
	for _, p := range r.pets {
		if p.ID == petID {
			return p
		}
	}
	return nil
}

func (r *fakePetRepo) UpdateGrowth(petID string, level, experience int) error {
	p := r.find(petID)
	if p == nil {
		return models.ErrNotFound
	}
	p.Level = level
	p.Experience = experience
	return nil
}

func (r *fakePetRepo) UpdateCare(petID string, happiness, hunger int, lastFed time.Time) error {
	p := r.find(petID)
	if p == nil {
		return models.ErrNotFound
	}
	p.Happiness = happiness
	p.Hunger = hunger
	p.LastFed = &lastFed
	return nil
}

func (r *fakePetRepo) UpdateVitals(petID string, happiness, hunger int) error {
	p := r.find(petID)
	if p == nil {
		return models.ErrNotFound
	}
	p.Happiness = happiness
	p.Hunger = hunger
	return nil
}

func (r *fakePetRepo) AllPets() ([]models.Pet, error) {
	var result []models.Pet
	for _, p := range r.pets {
		result = append(result, *p)
	}
	return result, nil
}

type fakeStoryRepo struct {
	stories  map[string]models.Story
	chapters map[string][]models.Chapter
	progress map[string]*models.UserStoryProgress // userID|storyID
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{
		stories:  make(map[string]models.Story),
		chapters: make(map[string][]models.Chapter),
		progress: make(map[string]*models.UserStoryProgress),
	}
}

func progressKey(userID, storyID string) string {
	return userID + "|" + storyID
}

func (r *fakeStoryRepo) addStory(story models.Story, chapters ...models.Chapter) {
	r.stories[story.ID] = story
	r.chapters[story.ID] = chapters
}

func (r *fakeStoryRepo) ActiveStories() ([]models.Story, error) {
	var result []models.Story
	for _, s := range r.stories {
		if s.IsActive {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeStoryRepo) Story(id string) (*models.Story, error) {
	s, ok := r.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (r *fakeStoryRepo) Chapters(storyID string) ([]models.Chapter, error) {
	return r.chapters[storyID], nil
}

func (r *fakeStoryRepo) Chapter(storyID string, chapterNumber int) (*models.Chapter, error) {
	for _, c := range r.chapters[storyID] {
		if c.ChapterNumber == chapterNumber {
			copied := c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("chapter %d of story %s: %w", chapterNumber, storyID, models.ErrNotFound)
}

func (r *fakeStoryRepo) Progress(userID, storyID string) (*models.UserStoryProgress, error) {
	p, ok := r.progress[progressKey(userID, storyID)]
	if !ok {
		return nil, fmt.Errorf("story progress: %w", models.ErrNotFound)
	}
	copied := *p
	copied.CompletedChapters = append([]int(nil), p.CompletedChapters...)
	return &copied, nil
}

func (r *fakeStoryRepo) CreateProgress(userID, storyID string) (*models.UserStoryProgress, error) {
	p := &models.UserStoryProgress{
		ID:             progressKey(userID, storyID),
		UserID:         userID,
		StoryID:        storyID,
		CurrentChapter: 1,
	}
	r.progress[progressKey(userID, storyID)] = p
	copied := *p
	return &copied, nil
}

func (r *fakeStoryRepo) IncrementQuestions(userID, storyID string) error {
	p, ok := r.progress[progressKey(userID, storyID)]
	if !ok {
		return models.ErrNotFound
	}
	p.QuestionsCompleted++
	return nil
}

func (r *fakeStoryRepo) SaveProgress(p *models.UserStoryProgress) error {
	stored, ok := r.progress[progressKey(p.UserID, p.StoryID)]
	if !ok {
		return models.ErrNotFound
	}
	*stored = *p
	stored.CompletedChapters = append([]int(nil), p.CompletedChapters...)
	return nil
}

func (r *fakeStoryRepo) ProgressForUser(userID string) ([]models.UserStoryProgress, error) {
	var result []models.UserStoryProgress
	for _, p := range r.progress {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeStoryRepo) CountCompleted(userID string) (int, error) {
	count := 0
	for _, p := range r.progress {
		if p.UserID == userID && p.IsCompleted {
			count++
		}
	}
	return count, nil
}

type fakeLinkRepo struct {
	links map[string]*models.StudentLink
}

func newFakeLinkRepo(links ...*models.StudentLink) *fakeLinkRepo {
	repo := &fakeLinkRepo{links: make(map[string]*models.StudentLink)}
	for _, l := range links {
		repo.links[l.ID] = l
	}
	return repo
}

func (r *fakeLinkRepo) Create(link *models.StudentLink) error {
	copied := *link
	r.links[link.ID] = &copied
	return nil
}

func (r *fakeLinkRepo) Get(id string) (*models.StudentLink, error) {
	l, ok := r.links[id]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id, models.ErrNotFound)
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLinkRepo) BySupervisor(supervisorID string) ([]models.StudentLinkWithStudent, error) {
	var result []models.StudentLinkWithStudent
	for _, l := range r.links {
		if l.SupervisorID == supervisorID {
			result = append(result, models.StudentLinkWithStudent{StudentLink: *l})
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) Approved(supervisorID, studentID string) (*models.StudentLink, error) {
	for _, l := range r.links {
		if l.SupervisorID == supervisorID && l.StudentID == studentID && l.Approved {
			copied := *l
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("approved link: %w", models.ErrNotFound)
}

func (r *fakeLinkRepo) Approve(id string) error {
	l, ok := r.links[id]
	if !ok {
		return models.ErrNotFound
	}
	l.Approved = true
	return nil
}

func (r *fakeLinkRepo) Delete(id string) error {
	delete(r.links, id)
	return nil
}

// fakeQuestionService returns canned results or a configured error

type fakeQuestionService struct {
	question    *models.GeneratedQuestion
	result      *models.ValidationResult
	generateErr error
	validateErr error
}

func (f *fakeQuestionService) Generate(ctx context.Context, subject models.Subject, yearLevel int, topic string, level models.Difficulty) (*models.GeneratedQuestion, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	copied := *f.question
	copied.Difficulty = level
	return &copied, nil
}

func (f *fakeQuestionService) Validate(ctx context.Context, question, correctAnswer, userAnswer string, subject models.Subject) (*models.ValidationResult, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	copied := *f.result
	return &copied, nil
}

var errUpstreamDown = errors.New("upstream down")
