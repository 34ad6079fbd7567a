package service

import (
	"testing"

	"penned/internal/domain/board/model"
	"penned/internal/domain/board/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockBoardRepository is a mock of BoardRepository
type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) CreateJob(job *model.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockBoardRepository) GetJobByID(id string) (*model.Job, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockBoardRepository) GetJobList(offset, limit int) ([]model.Job, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockBoardRepository) UpdateJob(job *model.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockBoardRepository) DeleteJob(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBoardRepository) SearchJobs(keyword string, limit int) ([]model.Job, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *MockBoardRepository) CreateCourse(course *model.Course) error {
	args := m.Called(course)
	return args.Error(0)
}

func (m *MockBoardRepository) GetCourseByID(id string) (*model.Course, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockBoardRepository) GetCourseList(offset, limit int) ([]model.Course, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockBoardRepository) UpdateCourse(course *model.Course) error {
	args := m.Called(course)
	return args.Error(0)
}

func (m *MockBoardRepository) DeleteCourse(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBoardRepository) SearchCourses(keyword string, limit int) ([]model.Course, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockBoardRepository) CreateCompetition(competition *model.Competition) error {
	args := m.Called(competition)
	return args.Error(0)
}

func (m *MockBoardRepository) GetCompetitionByID(id string) (*model.Competition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Competition), args.Error(1)
}

func (m *MockBoardRepository) GetCompetitionList(status string, offset, limit int) ([]model.Competition, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]model.Competition), args.Get(1).(int64), args.Error(2)
}

func (m *MockBoardRepository) UpdateCompetition(competition *model.Competition) error {
	args := m.Called(competition)
	return args.Error(0)
}

func (m *MockBoardRepository) DeleteCompetition(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBoardRepository) SearchCompetitions(keyword string, limit int) ([]model.Competition, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.Competition), args.Error(1)
}

func (m *MockBoardRepository) CreateEntry(entry *model.CompetitionEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockBoardRepository) HasEntry(competitionID, userID string) (bool, error) {
	args := m.Called(competitionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardRepository) GetEntriesByCompetition(competitionID string, offset, limit int) ([]model.CompetitionEntry, int64, error) {
	args := m.Called(competitionID, offset, limit)
	return args.Get(0).([]model.CompetitionEntry), args.Get(1).(int64), args.Error(2)
}

func createCompetition(id, status string) *model.Competition {
	c := &model.Competition{Title: "Hackathon", Status: status}
	c.ID = id
	return c
}

func TestEnterCompetition(t *testing.T) {
	t.Run("First entry succeeds", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "c1").Return(createCompetition("c1", model.CompetitionOngoing), nil)
		mockRepo.On("HasEntry", "c1", "u1").Return(false, nil)
		mockRepo.On("CreateEntry", mock.AnythingOfType("*model.CompetitionEntry")).Return(nil)

		entry, err := service.EnterCompetition("c1", "u1", EntryInput{Statement: "my submission"})

		assert.NoError(t, err)
		assert.Equal(t, "c1", entry.CompetitionID)
		assert.Equal(t, "my submission", entry.Statement)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Second entry rejected", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "c1").Return(createCompetition("c1", model.CompetitionOngoing), nil)
		mockRepo.On("HasEntry", "c1", "u1").Return(true, nil)

		_, err := service.EnterCompetition("c1", "u1", EntryInput{Statement: "my submission"})

		assert.ErrorIs(t, err, ErrAlreadyEntered)
	})

	t.Run("Concurrent duplicate caught by unique index", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "c1").Return(createCompetition("c1", model.CompetitionOngoing), nil)
		mockRepo.On("HasEntry", "c1", "u1").Return(false, nil)
		mockRepo.On("CreateEntry", mock.AnythingOfType("*model.CompetitionEntry")).Return(repository.ErrDuplicateEntry)

		_, err := service.EnterCompetition("c1", "u1", EntryInput{Statement: "my submission"})

		assert.ErrorIs(t, err, ErrAlreadyEntered)
	})

	t.Run("Past competition closed for entries", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "c1").Return(createCompetition("c1", model.CompetitionPast), nil)

		_, err := service.EnterCompetition("c1", "u1", EntryInput{Statement: "my submission"})

		assert.ErrorIs(t, err, ErrCompetitionClosed)
	})

	t.Run("Missing competition", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.EnterCompetition("ghost", "u1", EntryInput{})

		assert.ErrorIs(t, err, ErrListingNotFound)
	})
}

func TestSetCompetitionStatus(t *testing.T) {
	t.Run("Flip to past", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		mockRepo.On("GetCompetitionByID", "c1").Return(createCompetition("c1", model.CompetitionOngoing), nil)
		mockRepo.On("UpdateCompetition", mock.AnythingOfType("*model.Competition")).Return(nil)

		competition, err := service.SetCompetitionStatus("c1", model.CompetitionPast)

		assert.NoError(t, err)
		assert.Equal(t, model.CompetitionPast, competition.Status)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		mockRepo := new(MockBoardRepository)
		service := NewBoardService(mockRepo, nil)

		_, err := service.SetCompetitionStatus("c1", "archived")

		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
