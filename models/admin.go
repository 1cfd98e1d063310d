package models

import "time"

type Permission struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
}

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type ContentReport struct {
	ID             int        `json:"id"`
	ReporterID     int        `json:"reporterId"`
	SubjectType    string     `json:"subjectType"` // "note" or "user"
	SubjectID      int        `json:"subjectId"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ResolutionNote string     `json:"resolutionNote,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

type TelegramGroup struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdSettings is a single-row config table controlling monetization.
type AdSettings struct {
	AdsEnabled      bool    `json:"adsEnabled"`
	RevenuePerClick float64 `json:"revenuePerClick"`
	RewardPerView   float64 `json:"rewardPerView"`
	BannerImageID   string  `json:"bannerImageId,omitempty"`
	TargetURL       string  `json:"targetUrl,omitempty"`
}

type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AnalyticsOverview aggregates headline numbers for the admin console.
type AnalyticsOverview struct {
	Users               int     `json:"users"`
	Notes               int     `json:"notes"`
	Downloads           int     `json:"downloads"`
	OpenReports         int     `json:"openReports"`
	TotalEarnings       float64 `json:"totalEarnings"`
	PendingWithdrawals  float64 `json:"pendingWithdrawals"`
	NotesUploadedToday  int     `json:"notesUploadedToday"`
	ActiveUsersLastWeek int     `json:"activeUsersLastWeek"`
}
