package model

import (
	baseModel "penned/pkg/model"
)

// Series 系列（连载）模型
type Series struct {
	baseModel.OwnedModel
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `json:"coverUrl,omitempty"`
}

// Episode 系列中的单集，Position 决定阅读顺序
type Episode struct {
	baseModel.OwnedModel
	SeriesID string `gorm:"type:uuid;index;not null" json:"seriesId"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
	Position int    `gorm:"not null;default:0" json:"position"`
}
