package repository

import (
	"errors"
	"strings"

	"penned/internal/domain/board/model"

	"gorm.io/gorm"
)

// ErrDuplicateEntry 重复报名，由唯一索引兜底
var ErrDuplicateEntry = errors.New("entry already exists")

// BoardRepository 招聘/课程/比赛仓库
type BoardRepository interface {
	CreateJob(job *model.Job) error
	GetJobByID(id string) (*model.Job, error)
	GetJobList(offset, limit int) ([]model.Job, int64, error)
	UpdateJob(job *model.Job) error
	DeleteJob(id string) error
	SearchJobs(keyword string, limit int) ([]model.Job, error)

	CreateCourse(course *model.Course) error
	GetCourseByID(id string) (*model.Course, error)
	GetCourseList(offset, limit int) ([]model.Course, int64, error)
	UpdateCourse(course *model.Course) error
	DeleteCourse(id string) error
	SearchCourses(keyword string, limit int) ([]model.Course, error)

	CreateCompetition(competition *model.Competition) error
	GetCompetitionByID(id string) (*model.Competition, error)
	GetCompetitionList(status string, offset, limit int) ([]model.Competition, int64, error)
	UpdateCompetition(competition *model.Competition) error
	DeleteCompetition(id string) error
	SearchCompetitions(keyword string, limit int) ([]model.Competition, error)

	CreateEntry(entry *model.CompetitionEntry) error
	HasEntry(competitionID, userID string) (bool, error)
	GetEntriesByCompetition(competitionID string, offset, limit int) ([]model.CompetitionEntry, int64, error)
}

type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository 创建仓库实例
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

// CreateJob 创建招聘信息
func (r *boardRepository) CreateJob(job *model.Job) error {
	return r.db.Create(job).Error
}

// GetJobByID 根据ID获取招聘信息
func (r *boardRepository) GetJobByID(id string) (*model.Job, error) {
	var job model.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobList 招聘列表（分页）
func (r *boardRepository) GetJobList(offset, limit int) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	if err := r.db.Model(&model.Job{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Order("created_at desc").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// UpdateJob 更新招聘信息
func (r *boardRepository) UpdateJob(job *model.Job) error {
	return r.db.Save(job).Error
}

// DeleteJob 删除招聘信息
func (r *boardRepository) DeleteJob(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Job{}).Error
}

// SearchJobs 标题/公司模糊搜索
func (r *boardRepository) SearchJobs(keyword string, limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Where("title ILIKE ? OR company ILIKE ?", "%"+keyword+"%", "%"+keyword+"%").
		Limit(limit).Find(&jobs).Error
	return jobs, err
}

// CreateCourse 创建课程
func (r *boardRepository) CreateCourse(course *model.Course) error {
	return r.db.Create(course).Error
}

// GetCourseByID 根据ID获取课程
func (r *boardRepository) GetCourseByID(id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourseList 课程列表（分页）
func (r *boardRepository) GetCourseList(offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.db.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// UpdateCourse 更新课程
func (r *boardRepository) UpdateCourse(course *model.Course) error {
	return r.db.Save(course).Error
}

// DeleteCourse 删除课程
func (r *boardRepository) DeleteCourse(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Course{}).Error
}

// SearchCourses 标题/提供方模糊搜索
func (r *boardRepository) SearchCourses(keyword string, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Where("title ILIKE ? OR provider ILIKE ?", "%"+keyword+"%", "%"+keyword+"%").
		Limit(limit).Find(&courses).Error
	return courses, err
}

// CreateCompetition 创建比赛
func (r *boardRepository) CreateCompetition(competition *model.Competition) error {
	return r.db.Create(competition).Error
}

// GetCompetitionByID 根据ID获取比赛
func (r *boardRepository) GetCompetitionByID(id string) (*model.Competition, error) {
	var competition model.Competition
	if err := r.db.Where("id = ?", id).First(&competition).Error; err != nil {
		return nil, err
	}
	return &competition, nil
}

// GetCompetitionList 比赛列表，status 为空时返回全部
func (r *boardRepository) GetCompetitionList(status string, offset, limit int) ([]model.Competition, int64, error) {
	var competitions []model.Competition
	var total int64

	query := r.db.Model(&model.Competition{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&competitions).Error; err != nil {
		return nil, 0, err
	}
	return competitions, total, nil
}

// UpdateCompetition 更新比赛
func (r *boardRepository) UpdateCompetition(competition *model.Competition) error {
	return r.db.Save(competition).Error
}

// DeleteCompetition 删除比赛及其报名记录
func (r *boardRepository) DeleteCompetition(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competition_id = ?", id).Delete(&model.CompetitionEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Competition{}).Error
	})
}

// SearchCompetitions 标题模糊搜索
func (r *boardRepository) SearchCompetitions(keyword string, limit int) ([]model.Competition, error) {
	var competitions []model.Competition
	err := r.db.Where("title ILIKE ?", "%"+keyword+"%").
		Limit(limit).Find(&competitions).Error
	return competitions, err
}

// CreateEntry 写入报名记录，唯一索引冲突映射为 ErrDuplicateEntry
func (r *boardRepository) CreateEntry(entry *model.CompetitionEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "uniq_competition_user") {
			return ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// HasEntry 是否已报名
func (r *boardRepository) HasEntry(competitionID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.CompetitionEntry{}).
		Where("competition_id = ? AND user_id = ?", competitionID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetEntriesByCompetition 报名列表（管理员）
func (r *boardRepository) GetEntriesByCompetition(competitionID string, offset, limit int) ([]model.CompetitionEntry, int64, error) {
	var entries []model.CompetitionEntry
	var total int64

	if err := r.db.Model(&model.CompetitionEntry{}).
		Where("competition_id = ?", competitionID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Where("competition_id = ?", competitionID).
		Order("created_at asc").Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
