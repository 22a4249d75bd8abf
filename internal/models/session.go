package models

import "time"

// Session is one committed teaching session on the calendar.
// Times use the "HH:MM" wire format; Date is a calendar day.
type Session struct {
	ID                 string    `db:"id" json:"id"`
	ClassID            string    `db:"class_id" json:"class_id"`
	CurriculumModuleID string    `db:"curriculum_module_id" json:"curriculum_module_id"`
	TrainerID          string    `db:"trainer_id" json:"trainer_id"`
	RoomID             string    `db:"room_id" json:"room_id"`
	Date               time.Time `db:"date" json:"date"`
	StartTime          string    `db:"start_time" json:"start_time"`
	EndTime            string    `db:"end_time" json:"end_time"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SessionFilter describes query params for listing sessions.
type SessionFilter struct {
	ClassID   string
	TrainerID string
	RoomID    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SessionDetail enriches a session with display names for timetable views.
type SessionDetail struct {
	Session
	ModuleName  string `db:"module_name" json:"module_name"`
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	RoomName    string `db:"room_name" json:"room_name"`
}
