package models

import "time"

// ClassCohort represents a group of trainees following one course over a date range.
type ClassCohort struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	CourseID      string    `db:"course_id" json:"course_id"`
	MethodologyID string    `db:"methodology_id" json:"methodology_id"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends ClassCohort with its resolved methodology.
type ClassDetail struct {
	ClassCohort
	Methodology Methodology `json:"methodology"`
}

// Methodology is the daily time template governing session placement.
// Times use the "HH:MM" wire format.
type Methodology struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	DayStart   string    `db:"day_start" json:"day_start"`
	DayEnd     string    `db:"day_end" json:"day_end"`
	LunchStart string    `db:"lunch_start" json:"lunch_start"`
	LunchEnd   string    `db:"lunch_end" json:"lunch_end"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter defines filter criteria for listing class cohorts.
type ClassFilter struct {
	CourseID  string
	Search    string
	ActiveOn  *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
