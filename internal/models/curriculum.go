package models

import (
	"time"

	"github.com/lib/pq"
)

// Module is a teaching unit with a required hour total and a subject type
// constraining which room categories can host it.
type Module struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	TotalHours    int       `db:"total_hours" json:"total_hours"`
	SubjectTypeID *string   `db:"subject_type_id" json:"subject_type_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectType groups modules and declares the room categories able to host them.
// An empty category list means any room is compatible.
type SubjectType struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	RoomCategories pq.StringArray `db:"room_categories" json:"room_categories"`
}

// CurriculumModule assigns a module to a class with a priority rank.
// Lower rank is scheduled first.
type CurriculumModule struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	ModuleID  string    `db:"module_id" json:"module_id"`
	Priority  int       `db:"priority" json:"priority"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CurriculumModuleDetail enriches a curriculum entry with module metadata
// and the room categories compatible with its subject type.
type CurriculumModuleDetail struct {
	CurriculumModule
	ModuleName     string         `db:"module_name" json:"module_name"`
	TotalHours     int            `db:"total_hours" json:"total_hours"`
	RoomCategories pq.StringArray `db:"room_categories" json:"room_categories"`
}
