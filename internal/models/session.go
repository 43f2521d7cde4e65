package models

const (
	SessionTypeGroup      = "Group"
	SessionTypeIndividual = "Individual"
)

// TrainingSession is a scheduled coaching instance. Date and time are kept in
// their canonical text forms (YYYY-MM-DD, HH:MM) so they compare correctly as
// strings; attendees are the ordered distinct names currently signed up.
type TrainingSession struct {
	ID          int64    `json:"id"`
	TenantKey   string   `json:"-"`
	StudioID    int64    `json:"studioId"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Duration    int      `json:"duration"`
	Capacity    int      `json:"capacity"`
	CoachName   string   `json:"coachName"`
	SessionType string   `json:"sessionType"`
	Paid        bool     `json:"paid"`
	Attendees   []string `json:"attendees"`
}

// SessionDetail is a session with its payment derived from the owning
// studio's current policy.
type SessionDetail struct {
	TrainingSession
	Payment float64 `json:"payment"`
}

// AttendeeUpdate is the result of an attendee mutation: the fresh list and
// the freshly recomputed payment.
type AttendeeUpdate struct {
	Attendees []string `json:"attendees"`
	Payment   float64  `json:"payment"`
}
