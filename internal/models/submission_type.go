package models

import "time"

// SubmissionTypeProfile is one immutable registry entry.
type SubmissionTypeProfile struct {
	Key                 string   `json:"key"`
	Label               string   `json:"label"`
	Description         string   `json:"description"`
	AllowedFormats      []string `json:"allowedFormats"`
	MaxSizeBytes        int64    `json:"maxSizeBytes"`
	NamingConvention    string   `json:"namingConvention"`
	ContentExpectations string   `json:"contentExpectations"`
}

// SubmissionType is the persisted override row for a profile.
type SubmissionType struct {
	Key                 string    `gorm:"type:text;primaryKey" json:"key"`
	Label               string    `gorm:"type:text" json:"label"`
	Description         string    `gorm:"type:text" json:"description"`
	AllowedFormats      []string  `gorm:"type:jsonb;serializer:json" json:"allowed_formats"`
	MaxSizeBytes        int64     `gorm:"not null" json:"max_size_bytes"`
	NamingConvention    string    `gorm:"type:text" json:"naming_convention"`
	ContentExpectations string    `gorm:"type:text" json:"content_expectations"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (SubmissionType) TableName() string {
	return "submission_types"
}

func (s *SubmissionType) ToProfile() SubmissionTypeProfile {
	formats := make([]string, len(s.AllowedFormats))
	copy(formats, s.AllowedFormats)

	return SubmissionTypeProfile{
		Key:                 s.Key,
		Label:               s.Label,
		Description:         s.Description,
		AllowedFormats:      formats,
		MaxSizeBytes:        s.MaxSizeBytes,
		NamingConvention:    s.NamingConvention,
		ContentExpectations: s.ContentExpectations,
	}
}

func NewSubmissionTypeFromProfile(p SubmissionTypeProfile) *SubmissionType {
	formats := make([]string, len(p.AllowedFormats))
	copy(formats, p.AllowedFormats)

	return &SubmissionType{
		Key:                 p.Key,
		Label:               p.Label,
		Description:         p.Description,
		AllowedFormats:      formats,
		MaxSizeBytes:        p.MaxSizeBytes,
		NamingConvention:    p.NamingConvention,
		ContentExpectations: p.ContentExpectations,
	}
}
