package models

import (
	"time"
)

// Report statuses
const (
	ReportStatusOpen      = "open"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// Report reasons accepted from clients.
const (
	ReportReasonSpam     = "spam"
	ReportReasonAbuse    = "abuse"
	ReportReasonMisinfo  = "misinformation"
	ReportReasonAdvert   = "advertising"
	ReportReasonOffTopic = "off_topic"
	ReportReasonOther    = "other"
)

// Report is a user-filed complaint about a post or comment. CaseRef is an
// opaque reference shown to the reporter so support can look the case up
// without exposing row IDs.
type Report struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CaseRef    string     `gorm:"uniqueIndex;not null" json:"case_ref"`
	ReporterID uint       `gorm:"not null;index" json:"reporter_id"`
	TargetKind TargetKind `gorm:"not null" json:"target_kind"`
	TargetID   uint       `gorm:"not null" json:"target_id"`
	Reason     string     `gorm:"not null" json:"reason"`
	Detail     string     `gorm:"type:text" json:"detail"`
	Status     string     `gorm:"not null;default:open;index" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidReportReason reports whether the reason is one of the accepted values.
func ValidReportReason(reason string) bool {
	switch reason {
	case ReportReasonSpam, ReportReasonAbuse, ReportReasonMisinfo,
		ReportReasonAdvert, ReportReasonOffTopic, ReportReasonOther:
		return true
	}
	return false
}
