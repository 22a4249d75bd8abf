package dto

// GenerateScheduleRequest instructs the generator to build sessions for a class.
type GenerateScheduleRequest struct {
	ClassID          string `json:"classId" validate:"required"`
	MinStartDate     string `json:"minStartDate" validate:"omitempty,datetime=2006-01-02"`
	MaxBlockHours    int    `json:"maxBlockHours" validate:"omitempty,min=1,max=8"`
	MinBlockHours    int    `json:"minBlockHours" validate:"omitempty,min=1,max=8"`
	MaxActiveModules int    `json:"maxActiveModules" validate:"omitempty,min=1,max=10"`
	Persist          bool   `json:"persist"`
}

// SessionProposal represents one generated teaching session.
type SessionProposal struct {
	CurriculumModuleID string `json:"curriculumModuleId"`
	ModuleName         string `json:"moduleName"`
	TrainerID          string `json:"trainerId"`
	RoomID             string `json:"roomId"`
	Date               string `json:"date"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
}

// ModuleSummaryEntry reports per-module completion after a generation run.
type ModuleSummaryEntry struct {
	CurriculumModuleID string `json:"curriculumModuleId"`
	ModuleName         string `json:"moduleName"`
	TrainerName        string `json:"trainerName"`
	RequiredHours      int    `json:"requiredHours"`
	ScheduledHours     int    `json:"scheduledHours"`
	Completed          bool   `json:"completed"`
	Diagnostic         string `json:"diagnostic"`
}

// GenerateScheduleResponse returns generated sessions plus the per-module summary.
type GenerateScheduleResponse struct {
	ClassID   string               `json:"classId"`
	Persisted bool                 `json:"persisted"`
	Sessions  []SessionProposal    `json:"sessions"`
	Summary   []ModuleSummaryEntry `json:"summary"`
}

// TimetableQuery filters timetable reads.
type TimetableQuery struct {
	ClassID  string `form:"classId" json:"classId"`
	DateFrom string `form:"dateFrom" json:"dateFrom"`
	DateTo   string `form:"dateTo" json:"dateTo"`
}
