package service

import (
	"errors"

	"penned/internal/domain/board/model"
	"penned/internal/domain/board/repository"
	"penned/internal/pkg/uploader"
	"penned/internal/pkg/worker"
	"penned/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrAlreadyEntered    = errors.New("already entered this competition")
	ErrCompetitionClosed = errors.New("competition is no longer open for entries")
	ErrInvalidStatus     = errors.New("status must be ongoing or past")
)

// JobInput 招聘信息输入
type JobInput struct {
	Title       string
	Company     string
	Location    string
	Description string
	ApplyURL    string
	ImageURL    string
}

// CourseInput 课程输入
type CourseInput struct {
	Title       string
	Provider    string
	Description string
	CourseURL   string
	ImageURL    string
}

// CompetitionInput 比赛输入
type CompetitionInput struct {
	Title       string
	Description string
	Prize       string
	ImageURL    string
}

// EntryInput 报名输入，附加材料可选
type EntryInput struct {
	Statement string
	FileURL   string
}

// CompetitionView 比赛视图，带当前用户报名状态
type CompetitionView struct {
	*model.Competition
	Entered bool `json:"entered"`
}

// BoardService 招聘/课程/比赛服务接口
// 列表写操作仅管理员，路由层由 AdminMiddleware 把关
type BoardService interface {
	CreateJob(userID string, input JobInput) (*model.Job, error)
	GetJob(id string) (*model.Job, error)
	GetJobs(page, limit int) ([]model.Job, int64, error)
	UpdateJob(id string, input JobInput) (*model.Job, error)
	DeleteJob(id string) error

	CreateCourse(userID string, input CourseInput) (*model.Course, error)
	GetCourse(id string) (*model.Course, error)
	GetCourses(page, limit int) ([]model.Course, int64, error)
	UpdateCourse(id string, input CourseInput) (*model.Course, error)
	DeleteCourse(id string) error

	CreateCompetition(userID string, input CompetitionInput) (*model.Competition, error)
	GetCompetition(id, viewerID string) (*CompetitionView, error)
	GetCompetitions(status string, page, limit int) ([]model.Competition, int64, error)
	UpdateCompetition(id string, input CompetitionInput) (*model.Competition, error)
	SetCompetitionStatus(id, status string) (*model.Competition, error)
	DeleteCompetition(id string) error

	EnterCompetition(competitionID, userID string, input EntryInput) (*model.CompetitionEntry, error)
	GetEntries(competitionID string, page, limit int) ([]model.CompetitionEntry, int64, error)
}

type boardService struct {
	repo    repository.BoardRepository
	janitor *worker.Janitor
}

// NewBoardService 创建服务
func NewBoardService(repo repository.BoardRepository, janitor *worker.Janitor) BoardService {
	return &boardService{repo: repo, janitor: janitor}
}

// CreateJob 发布招聘信息
func (s *boardService) CreateJob(userID string, input JobInput) (*model.Job, error) {
	job := &model.Job{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
		ApplyURL:    input.ApplyURL,
		ImageURL:    input.ImageURL,
	}
	job.CreatedBy = userID

	if err := s.repo.CreateJob(job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob 获取单条招聘信息
func (s *boardService) GetJob(id string) (*model.Job, error) {
	job, err := s.repo.GetJobByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return job, nil
}

// GetJobs 招聘列表（分页）
func (s *boardService) GetJobs(page, limit int) ([]model.Job, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetJobList(offset, limit)
}

// UpdateJob 更新招聘信息
func (s *boardService) UpdateJob(id string, input JobInput) (*model.Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}

	oldImage := job.ImageURL
	job.Title = input.Title
	job.Company = input.Company
	job.Location = input.Location
	job.Description = input.Description
	job.ApplyURL = input.ApplyURL
	job.ImageURL = input.ImageURL

	if err := s.repo.UpdateJob(job); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != input.ImageURL {
		s.enqueueCleanup(oldImage)
	}
	return job, nil
}

// DeleteJob 删除招聘信息
func (s *boardService) DeleteJob(id string) error {
	job, err := s.GetJob(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteJob(id); err != nil {
		return err
	}
	s.enqueueCleanup(job.ImageURL)
	return nil
}

// CreateCourse 发布课程
func (s *boardService) CreateCourse(userID string, input CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       input.Title,
		Provider:    input.Provider,
		Description: input.Description,
		CourseURL:   input.CourseURL,
		ImageURL:    input.ImageURL,
	}
	course.CreatedBy = userID

	if err := s.repo.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourse 获取单条课程
func (s *boardService) GetCourse(id string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return course, nil
}

// GetCourses 课程列表（分页）
func (s *boardService) GetCourses(page, limit int) ([]model.Course, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetCourseList(offset, limit)
}

// UpdateCourse 更新课程
func (s *boardService) UpdateCourse(id string, input CourseInput) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	oldImage := course.ImageURL
	course.Title = input.Title
	course.Provider = input.Provider
	course.Description = input.Description
	course.CourseURL = input.CourseURL
	course.ImageURL = input.ImageURL

	if err := s.repo.UpdateCourse(course); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != input.ImageURL {
		s.enqueueCleanup(oldImage)
	}
	return course, nil
}

// DeleteCourse 删除课程
func (s *boardService) DeleteCourse(id string) error {
	course, err := s.GetCourse(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(id); err != nil {
		return err
	}
	s.enqueueCleanup(course.ImageURL)
	return nil
}

// CreateCompetition 发布比赛，初始状态 ongoing
func (s *boardService) CreateCompetition(userID string, input CompetitionInput) (*model.Competition, error) {
	competition := &model.Competition{
		Title:       input.Title,
		Description: input.Description,
		Prize:       input.Prize,
		ImageURL:    input.ImageURL,
		Status:      model.CompetitionOngoing,
	}
	competition.CreatedBy = userID

	if err := s.repo.CreateCompetition(competition); err != nil {
		return nil, err
	}
	return competition, nil
}

// GetCompetition 比赛详情，viewerID 非空时附带报名状态
func (s *boardService) GetCompetition(id, viewerID string) (*CompetitionView, error) {
	competition, err := s.repo.GetCompetitionByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	entered := false
	if viewerID != "" {
		entered, err = s.repo.HasEntry(id, viewerID)
		if err != nil {
			return nil, err
		}
	}
	return &CompetitionView{Competition: competition, Entered: entered}, nil
}

// GetCompetitions 比赛列表，可按状态筛选
func (s *boardService) GetCompetitions(status string, page, limit int) ([]model.Competition, int64, error) {
	if status != "" && status != model.CompetitionOngoing && status != model.CompetitionPast {
		return nil, 0, ErrInvalidStatus
	}
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetCompetitionList(status, offset, limit)
}

// UpdateCompetition 更新比赛内容
func (s *boardService) UpdateCompetition(id string, input CompetitionInput) (*model.Competition, error) {
	competition, err := s.repo.GetCompetitionByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	oldImage := competition.ImageURL
	competition.Title = input.Title
	competition.Description = input.Description
	competition.Prize = input.Prize
	competition.ImageURL = input.ImageURL

	if err := s.repo.UpdateCompetition(competition); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != input.ImageURL {
		s.enqueueCleanup(oldImage)
	}
	return competition, nil
}

// SetCompetitionStatus 管理员切换比赛状态
func (s *boardService) SetCompetitionStatus(id, status string) (*model.Competition, error) {
	if status != model.CompetitionOngoing && status != model.CompetitionPast {
		return nil, ErrInvalidStatus
	}

	competition, err := s.repo.GetCompetitionByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	competition.Status = status
	if err := s.repo.UpdateCompetition(competition); err != nil {
		return nil, err
	}
	return competition, nil
}

// DeleteCompetition 删除比赛及报名记录
func (s *boardService) DeleteCompetition(id string) error {
	competition, err := s.repo.GetCompetitionByID(id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.repo.DeleteCompetition(id); err != nil {
		return err
	}
	s.enqueueCleanup(competition.ImageURL)
	return nil
}

// EnterCompetition 报名，每人每场只能报一次
// 唯一索引兜底并发下的重复提交
func (s *boardService) EnterCompetition(competitionID, userID string, input EntryInput) (*model.CompetitionEntry, error) {
	competition, err := s.repo.GetCompetitionByID(competitionID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !competition.IsOngoing() {
		return nil, ErrCompetitionClosed
	}

	entered, err := s.repo.HasEntry(competitionID, userID)
	if err != nil {
		return nil, err
	}
	if entered {
		return nil, ErrAlreadyEntered
	}

	entry := &model.CompetitionEntry{
		CompetitionID: competitionID,
		UserID:        userID,
		Statement:     input.Statement,
		FileURL:       input.FileURL,
	}
	if err := s.repo.CreateEntry(entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrAlreadyEntered
		}
		return nil, err
	}
	return entry, nil
}

// GetEntries 报名列表（管理员）
func (s *boardService) GetEntries(competitionID string, page, limit int) ([]model.CompetitionEntry, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetEntriesByCompetition(competitionID, offset, limit)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrListingNotFound
	}
	return err
}

func (s *boardService) enqueueCleanup(url string) {
	if url == "" || s.janitor == nil || uploader.GlobalUploader == nil {
		return
	}
	s.janitor.Enqueue(uploader.GlobalUploader.ObjectKeyFromURL(url))
}
