package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrReviewerAccessRequired = errors.New("manager, admin, or owner access required")
)
