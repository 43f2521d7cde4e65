package models

type Stats struct {
	TotalSessions  int     `json:"totalSessions"`
	TotalAttendees int     `json:"totalAttendees"`
	PaidRevenue    float64 `json:"paidRevenue"`
	PendingRevenue float64 `json:"pendingRevenue"`
}

// SessionSummary is one line of the detailed stats breakdown.
type SessionSummary struct {
	ID          int64    `json:"id"`
	StudioID    int64    `json:"studioId"`
	StudioName  string   `json:"studioName"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	SessionType string   `json:"sessionType"`
	Paid        bool     `json:"paid"`
	Attendees   []string `json:"attendees"`
	Payment     float64  `json:"payment"`
}

type FilteredStats struct {
	Stats
	GroupSessions      int              `json:"groupSessions"`
	IndividualSessions int              `json:"individualSessions"`
	Sessions           []SessionSummary `json:"sessions"`
}
