package services

import "errors"

var (
	ErrInitiativeNotFound = errors.New("initiative not found")
	ErrContactNotFound    = errors.New("contact not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrUserNotFound       = errors.New("user not found")

	// ErrContactMismatch and ErrAttachmentMismatch mean the child row exists
	// but belongs to another initiative.
	ErrContactMismatch    = errors.New("contact does not belong to this initiative")
	ErrAttachmentMismatch = errors.New("attachment does not belong to this initiative")

	ErrUnknownUserType     = errors.New("unknown user type")
	ErrSearchUnavailable   = errors.New("search is not configured")
	ErrUnsupportedFileType = errors.New("file type is not supported")
	ErrFileTooLarge        = errors.New("file size exceeds limit")
	ErrAttachmentSource    = errors.New("either file upload or external URL is required")
)
