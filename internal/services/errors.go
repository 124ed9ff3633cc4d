package services

// Service errors
var (
	ErrPhaseClosed         = &ServiceError{Message: "this action is not open right now"}
	ErrDuplicateSubmission = &ServiceError{Message: "you have already submitted a clip this week"}
	ErrAlreadyVoted        = &ServiceError{Message: "you have already voted this week"}
	ErrClipNotFound        = &ServiceError{Message: "clip not found"}
	ErrMissingMedia        = &ServiceError{Message: "a media url is required"}
	ErrInvalidDuration     = &ServiceError{Message: "clip duration must be positive"}
	ErrClipTooLong         = &ServiceError{Message: "clip is longer than this week's limit"}
	ErrStoreUnavailable    = &ServiceError{Message: "the store is unavailable - please try again"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
