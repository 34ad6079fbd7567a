package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists       = 10001
	ErrUserNotFound     = 10002
	ErrAuthFailed       = 10003
	ErrTokenInvalid     = 10004
	ErrNoPermission     = 10005
	ErrEmailNotVerified = 10006

	// 内容模块错误 200xx (post/blog/series)
	ErrPostNotFound    = 20001
	ErrSeriesNotFound  = 20002
	ErrEpisodeNotFound = 20003
	ErrCommentNotFound = 20004

	// 订阅模块错误 300xx
	ErrReceiptNotFound = 30001
	ErrReceiptPending  = 30002

	// 招聘/课程/比赛模块错误 400xx
	ErrListingNotFound = 40001
	ErrEntryExists     = 40002

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrUploadRejected  = 50004
)
