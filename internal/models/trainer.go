package models

import "time"

// Trainer represents an instructor record.
type Trainer struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Expertise *string   `db:"expertise" json:"expertise,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TrainerFilter captures filtering options for listing trainers.
type TrainerFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TrainerAssignment maps one curriculum module to the trainer teaching it.
// A run admits at most one trainer per module.
type TrainerAssignment struct {
	ID                 string    `db:"id" json:"id"`
	ClassID            string    `db:"class_id" json:"class_id"`
	CurriculumModuleID string    `db:"curriculum_module_id" json:"curriculum_module_id"`
	TrainerID          string    `db:"trainer_id" json:"trainer_id"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// TrainerAssignmentDetail enriches assignments with descriptive fields.
type TrainerAssignmentDetail struct {
	TrainerAssignment
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	ModuleName  string `db:"module_name" json:"module_name"`
}

// AvailabilityWindow is a declared (date, start, end) range in which a trainer
// may be booked. Times use the "HH:MM" wire format.
type AvailabilityWindow struct {
	ID        string    `db:"id" json:"id"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
