package repository

import (
	"penned/internal/domain/series/model"
	userModel "penned/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeriesRepository 系列/单集仓库
type SeriesRepository interface {
	CreateSeries(series *model.Series) error
	GetSeriesByID(id string) (*model.Series, error)
	GetSeriesList(offset, limit int) ([]model.Series, int64, error)
	UpdateSeries(series *model.Series) error
	// DeleteSeries 级联删除单集，返回被删单集的图片 URL 供异步清理
	DeleteSeries(id, ownerID string) ([]string, error)
	SearchSeries(keyword string, limit int) ([]model.Series, error)

	CreateEpisode(episode *model.Episode) error
	GetEpisodeByID(id string) (*model.Episode, error)
	GetEpisodesBySeries(seriesID string) ([]model.Episode, error)
	NextPosition(seriesID string) (int, error)
	UpdateEpisode(episode *model.Episode) error
	DeleteEpisode(id string) error
}

type seriesRepository struct {
	db *gorm.DB
}

// NewSeriesRepository 创建仓库实例
func NewSeriesRepository(db *gorm.DB) SeriesRepository {
	return &seriesRepository{db: db}
}

// CreateSeries 创建系列，同事务维护作者的 series 集合
func (r *seriesRepository) CreateSeries(series *model.Series) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(series).Error; err != nil {
			return err
		}

		var owner userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", series.CreatedBy).First(&owner).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.User{}).Where("id = ?", owner.ID).
			Update("series", owner.Series.Add(series.ID)).Error
	})
}

// GetSeriesByID 根据ID获取系列
func (r *seriesRepository) GetSeriesByID(id string) (*model.Series, error) {
	var series model.Series
	if err := r.db.Where("id = ?", id).First(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// GetSeriesList 系列列表（分页）
func (r *seriesRepository) GetSeriesList(offset, limit int) ([]model.Series, int64, error) {
	var list []model.Series
	var total int64

	if err := r.db.Model(&model.Series{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateSeries 更新系列
func (r *seriesRepository) UpdateSeries(series *model.Series) error {
	return r.db.Save(series).Error
}

// DeleteSeries 删除系列与全部单集，同事务清理作者集合
func (r *seriesRepository) DeleteSeries(id, ownerID string) ([]string, error) {
	var images []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var episodes []model.Episode
		if err := tx.Where("series_id = ?", id).Find(&episodes).Error; err != nil {
			return err
		}
		for _, ep := range episodes {
			if ep.ImageURL != "" {
				images = append(images, ep.ImageURL)
			}
		}

		if err := tx.Where("series_id = ?", id).Delete(&model.Episode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&model.Series{}).Error; err != nil {
			return err
		}

		var owner userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ownerID).First(&owner).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.User{}).Where("id = ?", owner.ID).
			Update("series", owner.Series.Remove(id)).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// SearchSeries 管理后台标题模糊搜索
func (r *seriesRepository) SearchSeries(keyword string, limit int) ([]model.Series, error) {
	var list []model.Series
	err := r.db.Where("title ILIKE ?", "%"+keyword+"%").
		Limit(limit).Find(&list).Error
	return list, err
}

// CreateEpisode 追加单集
func (r *seriesRepository) CreateEpisode(episode *model.Episode) error {
	return r.db.Create(episode).Error
}

// GetEpisodeByID 根据ID获取单集
func (r *seriesRepository) GetEpisodeByID(id string) (*model.Episode, error) {
	var episode model.Episode
	if err := r.db.Where("id = ?", id).First(&episode).Error; err != nil {
		return nil, err
	}
	return &episode, nil
}

// GetEpisodesBySeries 按顺序取系列全部单集
func (r *seriesRepository) GetEpisodesBySeries(seriesID string) ([]model.Episode, error) {
	var episodes []model.Episode
	err := r.db.Where("series_id = ?", seriesID).
		Order("position asc, created_at asc").Find(&episodes).Error
	return episodes, err
}

// NextPosition 系列内下一个顺序号
func (r *seriesRepository) NextPosition(seriesID string) (int, error) {
	var max int
	err := r.db.Model(&model.Episode{}).Where("series_id = ?", seriesID).
		Select("COALESCE(MAX(position), 0)").Scan(&max).Error
	return max + 1, err
}

// UpdateEpisode 更新单集
func (r *seriesRepository) UpdateEpisode(episode *model.Episode) error {
	return r.db.Save(episode).Error
}

// DeleteEpisode 删除单集
func (r *seriesRepository) DeleteEpisode(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Episode{}).Error
}
