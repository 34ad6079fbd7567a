package service

import (
	"errors"

	"penned/internal/domain/series/model"
	"penned/internal/domain/series/repository"
	"penned/internal/pkg/uploader"
	"penned/internal/pkg/worker"
	"penned/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrSeriesNotFound  = errors.New("series not found")
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrNotOwner        = errors.New("only the owner or an admin can modify this")
)

// SeriesView 系列详情视图，附带按顺序排好的单集
type SeriesView struct {
	*model.Series
	Episodes []model.Episode `json:"episodes"`
}

// SeriesService 系列服务接口
type SeriesService interface {
	CreateSeries(userID, title, description, coverURL string) (*model.Series, error)
	GetSeries(id string) (*SeriesView, error)
	GetSeriesList(page, limit int) ([]model.Series, int64, error)
	UpdateSeries(userID string, isAdmin bool, id, title, description, coverURL string) (*model.Series, error)
	DeleteSeries(userID string, isAdmin bool, id string) error

	AddEpisode(userID string, isAdmin bool, seriesID, title, content, imageURL string) (*model.Episode, error)
	UpdateEpisode(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Episode, error)
	DeleteEpisode(userID string, isAdmin bool, id string) error
}

type seriesService struct {
	repo    repository.SeriesRepository
	janitor *worker.Janitor
}

// NewSeriesService 创建系列服务
func NewSeriesService(repo repository.SeriesRepository, janitor *worker.Janitor) SeriesService {
	return &seriesService{repo: repo, janitor: janitor}
}

// CreateSeries 创建系列
func (s *seriesService) CreateSeries(userID, title, description, coverURL string) (*model.Series, error) {
	series := &model.Series{
		Title:       title,
		Description: description,
		CoverURL:    coverURL,
	}
	series.CreatedBy = userID

	if err := s.repo.CreateSeries(series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeries 系列详情（含全部单集）
func (s *seriesService) GetSeries(id string) (*SeriesView, error) {
	series, err := s.getSeries(id)
	if err != nil {
		return nil, err
	}

	episodes, err := s.repo.GetEpisodesBySeries(id)
	if err != nil {
		return nil, err
	}
	return &SeriesView{Series: series, Episodes: episodes}, nil
}

// GetSeriesList 系列列表（分页）
func (s *seriesService) GetSeriesList(page, limit int) ([]model.Series, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetSeriesList(offset, limit)
}

// UpdateSeries 更新系列（作者或管理员）
func (s *seriesService) UpdateSeries(userID string, isAdmin bool, id, title, description, coverURL string) (*model.Series, error) {
	series, err := s.getSeries(id)
	if err != nil {
		return nil, err
	}
	if !series.IsOwner(userID) && !isAdmin {
		return nil, ErrNotOwner
	}

	oldCover := series.CoverURL
	series.Title = title
	series.Description = description
	series.CoverURL = coverURL

	if err := s.repo.UpdateSeries(series); err != nil {
		return nil, err
	}
	if oldCover != "" && oldCover != coverURL {
		s.enqueueCleanup(oldCover)
	}
	return series, nil
}

// DeleteSeries 删除系列，级联删除单集并清理所有存储对象
func (s *seriesService) DeleteSeries(userID string, isAdmin bool, id string) error {
	series, err := s.getSeries(id)
	if err != nil {
		return err
	}
	if !series.IsOwner(userID) && !isAdmin {
		return ErrNotOwner
	}

	images, err := s.repo.DeleteSeries(id, series.CreatedBy)
	if err != nil {
		return err
	}

	s.enqueueCleanup(series.CoverURL)
	for _, url := range images {
		s.enqueueCleanup(url)
	}
	return nil
}

// AddEpisode 向系列追加单集，顺序号自动递增
func (s *seriesService) AddEpisode(userID string, isAdmin bool, seriesID, title, content, imageURL string) (*model.Episode, error) {
	series, err := s.getSeries(seriesID)
	if err != nil {
		return nil, err
	}
	if !series.IsOwner(userID) && !isAdmin {
		return nil, ErrNotOwner
	}

	position, err := s.repo.NextPosition(seriesID)
	if err != nil {
		return nil, err
	}

	episode := &model.Episode{
		SeriesID: seriesID,
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
		Position: position,
	}
	episode.CreatedBy = userID

	if err := s.repo.CreateEpisode(episode); err != nil {
		return nil, err
	}
	return episode, nil
}

// UpdateEpisode 更新单集（系列作者或管理员）
func (s *seriesService) UpdateEpisode(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Episode, error) {
	episode, err := s.getEpisode(id)
	if err != nil {
		return nil, err
	}
	series, err := s.getSeries(episode.SeriesID)
	if err != nil {
		return nil, err
	}
	if !series.IsOwner(userID) && !isAdmin {
		return nil, ErrNotOwner
	}

	oldImage := episode.ImageURL
	episode.Title = title
	episode.Content = content
	episode.ImageURL = imageURL

	if err := s.repo.UpdateEpisode(episode); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != imageURL {
		s.enqueueCleanup(oldImage)
	}
	return episode, nil
}

// DeleteEpisode 删除单集（系列作者或管理员）
func (s *seriesService) DeleteEpisode(userID string, isAdmin bool, id string) error {
	episode, err := s.getEpisode(id)
	if err != nil {
		return err
	}
	series, err := s.getSeries(episode.SeriesID)
	if err != nil {
		return err
	}
	if !series.IsOwner(userID) && !isAdmin {
		return ErrNotOwner
	}

	if err := s.repo.DeleteEpisode(id); err != nil {
		return err
	}
	s.enqueueCleanup(episode.ImageURL)
	return nil
}

func (s *seriesService) getSeries(id string) (*model.Series, error) {
	series, err := s.repo.GetSeriesByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return series, nil
}

func (s *seriesService) getEpisode(id string) (*model.Episode, error) {
	episode, err := s.repo.GetEpisodeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, err
	}
	return episode, nil
}

func (s *seriesService) enqueueCleanup(url string) {
	if url == "" || s.janitor == nil || uploader.GlobalUploader == nil {
		return
	}
	s.janitor.Enqueue(uploader.GlobalUploader.ObjectKeyFromURL(url))
}
