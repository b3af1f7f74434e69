package models

// Category classifies what kind of change an initiative proposes.
type Category string

const (
	CategoryTechnology Category = "TECHNOLOGY"
	CategoryProcess    Category = "PROCESS"
	CategoryProduct    Category = "PRODUCT"
	CategoryOther      Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryProcess, CategoryProduct, CategoryOther:
		return true
	}
	return false
}

// Priority of an initiative. New initiatives default to MEDIUM.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// AttachmentType is derived from the uploaded mime type, or LINK for URLs.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "IMAGE"
	AttachmentVideo    AttachmentType = "VIDEO"
	AttachmentDocument AttachmentType = "DOCUMENT"
	AttachmentLink     AttachmentType = "LINK"
)

// Storage providers recorded on attachments.
const (
	StorageLocal   = "LOCAL"
	StorageS3      = "S3"
	StorageGeneric = "GENERIC"
)
