package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionEvent records one observed state transition for a target. The scan
// itself is never persisted; only the moments a target changes state are.
type SessionEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Target    string         `gorm:"not null;index" json:"target"`
	FromState string         `gorm:"not null" json:"from_state"`
	ToState   string         `gorm:"not null" json:"to_state"`
	IsWine    bool           `gorm:"not null;default:false" json:"is_wine"`
	Version   string         `json:"version,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PlaySummary is the aggregated play time for one target over a period.
type PlaySummary struct {
	Target       string  `json:"target"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Sessions     int     `json:"sessions"`
	Percentage   float64 `json:"percentage,omitempty"`
}

// ReportPeriod bounds a report.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

// Report is a full playtime report.
type Report struct {
	Period       ReportPeriod  `json:"period"`
	Targets      []PlaySummary `json:"targets"`
	TotalSeconds int64         `json:"total_seconds"`
	TotalHours   float64       `json:"total_hours"`
	GeneratedAt  time.Time     `json:"generated_at"`
}
