package domain

import "errors"

var (
	ErrInvalidTopic   = errors.New("topic is required")
	ErrPipelineFailed = errors.New("pipeline failed")
)
