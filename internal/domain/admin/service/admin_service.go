package service

import (
	"errors"
	"strings"

	boardModel "penned/internal/domain/board/model"
	boardRepo "penned/internal/domain/board/repository"
	postModel "penned/internal/domain/post/model"
	postRepo "penned/internal/domain/post/repository"
	seriesModel "penned/internal/domain/series/model"
	seriesRepo "penned/internal/domain/series/repository"
	userModel "penned/internal/domain/user/model"
	userRepo "penned/internal/domain/user/repository"

	"gorm.io/gorm"
)

var ErrEmptyQuery = errors.New("search query is required")

// 每个集合的搜索命中上限
const searchLimit = 20

// SearchResult 跨集合搜索结果，按集合分组
type SearchResult struct {
	Users        []userModel.User         `json:"users"`
	Posts        []postModel.Post         `json:"posts"`
	Blogs        []postModel.Blog         `json:"blogs"`
	Series       []seriesModel.Series     `json:"series"`
	Jobs         []boardModel.Job         `json:"jobs"`
	Courses      []boardModel.Course      `json:"courses"`
	Competitions []boardModel.Competition `json:"competitions"`
}

// Dashboard 管理面板汇总
type Dashboard struct {
	Users           int64 `json:"users"`
	Subscribers     int64 `json:"subscribers"`
	PendingReceipts int64 `json:"pendingReceipts"`
	Posts           int64 `json:"posts"`
	Blogs           int64 `json:"blogs"`
	Series          int64 `json:"series"`
	Jobs            int64 `json:"jobs"`
	Courses         int64 `json:"courses"`
	Competitions    int64 `json:"competitions"`
}

// AdminService 管理后台服务接口
type AdminService interface {
	Search(query string) (*SearchResult, error)
	GetDashboard() (*Dashboard, error)
}

type adminService struct {
	db     *gorm.DB
	users  userRepo.UserRepository
	posts  postRepo.PostRepository
	series seriesRepo.SeriesRepository
	board  boardRepo.BoardRepository
}

// NewAdminService 创建管理后台服务
func NewAdminService(db *gorm.DB, users userRepo.UserRepository, posts postRepo.PostRepository,
	series seriesRepo.SeriesRepository, board boardRepo.BoardRepository) AdminService {
	return &adminService{
		db:     db,
		users:  users,
		posts:  posts,
		series: series,
		board:  board,
	}
}

// Search 跨集合模糊搜索，逐个集合查询后分组返回
func (s *adminService) Search(query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	result := &SearchResult{}
	var err error

	if result.Users, err = s.users.SearchByEmail(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Posts, err = s.posts.SearchPosts(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Blogs, err = s.posts.SearchBlogs(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Series, err = s.series.SearchSeries(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Jobs, err = s.board.SearchJobs(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Courses, err = s.board.SearchCourses(query, searchLimit); err != nil {
		return nil, err
	}
	if result.Competitions, err = s.board.SearchCompetitions(query, searchLimit); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDashboard 管理面板汇总计数
func (s *adminService) GetDashboard() (*Dashboard, error) {
	d := &Dashboard{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&userModel.User{}, &d.Users},
		{&postModel.Post{}, &d.Posts},
		{&postModel.Blog{}, &d.Blogs},
		{&seriesModel.Series{}, &d.Series},
		{&boardModel.Job{}, &d.Jobs},
		{&boardModel.Course{}, &d.Courses},
		{&boardModel.Competition{}, &d.Competitions},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&userModel.User{}).
		Where("subscription_date IS NOT NULL AND subscription_date > NOW() - INTERVAL '30 days'").
		Count(&d.Subscribers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&userModel.User{}).
		Where("pending_receipt_url <> ''").
		Count(&d.PendingReceipts).Error; err != nil {
		return nil, err
	}
	return d, nil
}
