package model

import (
	baseModel "penned/pkg/model"
)

// 比赛状态
const (
	CompetitionOngoing = "ongoing"
	CompetitionPast    = "past"
)

// Job 招聘信息
type Job struct {
	baseModel.OwnedModel
	Title       string `gorm:"not null" json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `gorm:"type:text" json:"description"`
	ApplyURL    string `json:"applyUrl"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Course 课程信息
type Course struct {
	baseModel.OwnedModel
	Title       string `gorm:"not null" json:"title"`
	Provider    string `json:"provider"`
	Description string `gorm:"type:text" json:"description"`
	CourseURL   string `json:"courseUrl"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Competition 比赛信息，状态由管理员在 ongoing/past 之间切换
type Competition struct {
	baseModel.OwnedModel
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Prize       string `json:"prize"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Status      string `gorm:"not null;default:ongoing;index" json:"status"`
}

// IsOngoing 是否进行中
func (c *Competition) IsOngoing() bool {
	return c.Status == CompetitionOngoing
}

// CompetitionEntry 报名记录，(competition_id, user_id) 唯一
type CompetitionEntry struct {
	baseModel.BaseModel
	CompetitionID string `gorm:"type:uuid;uniqueIndex:uniq_competition_user;not null" json:"competitionId"`
	UserID        string `gorm:"type:uuid;uniqueIndex:uniq_competition_user;not null" json:"userId"`
	Statement     string `gorm:"type:text" json:"statement"`
	FileURL       string `json:"fileUrl,omitempty"`
}
