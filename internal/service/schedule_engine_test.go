package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsForDayPacksAroundLunch(t *testing.T) {
	tpl := dayTemplate{
		dayStart:   parseClock("09:00"),
		dayEnd:     parseClock("17:00"),
		lunchStart: parseClock("12:00"),
		lunchEnd:   parseClock("13:00"),
	}

	slots := slotsForDay(tpl, 3, 1)

	require.Len(t, slots, 3)
	assert.Equal(t, timeBlock{start: parseClock("09:00"), end: parseClock("12:00")}, slots[0])
	assert.Equal(t, timeBlock{start: parseClock("13:00"), end: parseClock("16:00")}, slots[1])
	assert.Equal(t, timeBlock{start: parseClock("16:00"), end: parseClock("17:00")}, slots[2])
}

func TestSlotsForDaySkipsSubMinimumRemainder(t *testing.T) {
	tpl := dayTemplate{
		dayStart:   parseClock("09:00"),
		dayEnd:     parseClock("12:30"),
		lunchStart: parseClock("12:00"),
		lunchEnd:   parseClock("12:30"),
	}

	slots := slotsForDay(tpl, 3, 1)

	// 12:00-12:30 after lunch is below the one hour minimum.
	require.Len(t, slots, 1)
	assert.Equal(t, timeBlock{start: parseClock("09:00"), end: parseClock("12:00")}, slots[0])
}

func TestTrainerFreeRequiresCoveringWindowFirst(t *testing.T) {
	day := testDay("2025-01-06")
	trainer := &engineTrainer{id: "tr-1", name: "Ana", windows: []availabilityWindow{
		{date: day, start: parseClock("09:00"), end: parseClock("12:00")},
	}}
	e := newTimetableEngine(engineInput{classID: "cl-1", classEnd: day})

	assert.True(t, e.trainerFree(trainer, day, parseClock("09:00"), parseClock("12:00")))
	// Partially covered candidates are rejected before the calendar is consulted.
	assert.False(t, e.trainerFree(trainer, day, parseClock("11:00"), parseClock("14:00")))
	assert.False(t, e.trainerFree(trainer, testDay("2025-01-07"), parseClock("09:00"), parseClock("10:00")))

	e.committed = append(e.committed, bookedSession{
		classID: "cl-2", trainerID: "tr-1", roomID: "rm-9",
		date: day, start: parseClock("10:00"), end: parseClock("11:00"),
	})
	assert.False(t, e.trainerFree(trainer, day, parseClock("09:00"), parseClock("12:00")))
	assert.False(t, e.trainerFree(trainer, day, parseClock("10:00"), parseClock("11:00")))
}

func TestGenerateTimetableSingleModuleCompletes(t *testing.T) {
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 6, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))),
	})

	result := generateTimetable(in)

	require.Len(t, result.summary, 1)
	entry := result.summary[0]
	assert.True(t, entry.Completed)
	assert.Equal(t, diagCompleted, entry.Diagnostic)
	assert.Equal(t, 6, entry.RequiredHours)
	assert.Equal(t, 6, entry.ScheduledHours)

	require.Len(t, result.sessions, 2)
	for _, session := range result.sessions {
		assert.Equal(t, 180, session.end-session.start)
		assert.Equal(t, testDay("2025-01-06"), session.date)
	}
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableNoAvailability(t *testing.T) {
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 6, fixtureTrainer("tr-1", "Ana", nil)),
	})

	result := generateTimetable(in)

	assert.Empty(t, result.sessions)
	require.Len(t, result.summary, 1)
	assert.False(t, result.summary[0].Completed)
	assert.Equal(t, diagNoAvailability, result.summary[0].Diagnostic)
}

func TestGenerateTimetableMissingTrainer(t *testing.T) {
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 6, nil),
	})

	result := generateTimetable(in)

	assert.Empty(t, result.sessions)
	require.Len(t, result.summary, 1)
	assert.Equal(t, "none", result.summary[0].TrainerName)
	assert.Equal(t, diagNoTrainer, result.summary[0].Diagnostic)
}

func TestGenerateTimetableRoundRobinInterleaving(t *testing.T) {
	trainer := fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Module One", 1, 4, trainer),
		fixtureModule("cm-2", "Module Two", 2, 4, trainer),
	})

	result := generateTimetable(in)

	for _, entry := range result.summary {
		assert.True(t, entry.Completed, "module %s should complete", entry.ModuleName)
		assert.Equal(t, 4, entry.ScheduledHours)
	}

	// Slots alternate between the two active modules instead of one module
	// monopolising the day.
	require.True(t, len(result.sessions) >= 3)
	assert.Equal(t, "cm-1", result.sessions[0].curriculumModuleID)
	assert.Equal(t, "cm-2", result.sessions[1].curriculumModuleID)
	assert.Equal(t, "cm-1", result.sessions[2].curriculumModuleID)
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableIncompatibleRoomCategory(t *testing.T) {
	module := fixtureModule("cm-1", "Electronics Lab", 1, 6, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00")))
	module.roomCategories = []string{"lab"}
	in := fixtureInput(t, []engineModule{module})

	result := generateTimetable(in)

	assert.Empty(t, result.sessions)
	require.Len(t, result.summary, 1)
	assert.False(t, result.summary[0].Completed)
	assert.Equal(t, diagNoCompatibleSlot, result.summary[0].Diagnostic)
}

func TestGenerateTimetableStaleAvailabilityDiagnostic(t *testing.T) {
	// Windows stop two days before the class end.
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 40, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 3, "09:00", "17:00"))),
	})

	result := generateTimetable(in)

	require.Len(t, result.summary, 1)
	entry := result.summary[0]
	assert.False(t, entry.Completed)
	assert.Equal(t, "trainer has no availability windows beyond 2025-01-08", entry.Diagnostic)
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableClassEndReached(t *testing.T) {
	// 50 required hours cannot fit into a five day class at 7 bookable
	// hours per day.
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 50, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))),
	})

	result := generateTimetable(in)

	require.Len(t, result.summary, 1)
	entry := result.summary[0]
	assert.False(t, entry.Completed)
	assert.Equal(t, 35, entry.ScheduledHours)
	assert.Equal(t, diagClassEndReached, entry.Diagnostic)
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableSkipsWeekendsAndHolidays(t *testing.T) {
	// Class spans New Year's Day 2025 (Wednesday) and a weekend.
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 40, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2024-12-30", 10, "09:00", "17:00"))),
	})
	in.classStart = testDay("2024-12-30")
	in.classEnd = testDay("2025-01-10")

	result := generateTimetable(in)

	require.NotEmpty(t, result.sessions)
	for _, session := range result.sessions {
		assert.NotEqual(t, time.Saturday, session.date.Weekday())
		assert.NotEqual(t, time.Sunday, session.date.Weekday())
		assert.NotEqual(t, testDay("2025-01-01"), session.date, "holiday must not host sessions")
	}
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableHonoursMinStartOverride(t *testing.T) {
	override := testDay("2025-01-08")
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 6, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))),
	})
	in.minStart = &override

	result := generateTimetable(in)

	require.NotEmpty(t, result.sessions)
	for _, session := range result.sessions {
		assert.False(t, session.date.Before(override))
	}
}

func TestGenerateTimetableRespectsCommittedSessions(t *testing.T) {
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 3, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))),
	})
	// Another class holds the only room every morning of day one.
	in.committed = []bookedSession{{
		classID: "cl-other", curriculumModuleID: "cm-x", trainerID: "tr-2", roomID: "rm-1",
		date: testDay("2025-01-06"), start: parseClock("09:00"), end: parseClock("12:00"),
	}}

	result := generateTimetable(in)

	require.NotEmpty(t, result.sessions)
	first := result.sessions[0]
	assert.False(t, first.date.Equal(testDay("2025-01-06")) && overlaps(first.start, first.end, parseClock("09:00"), parseClock("12:00")))
	assertScheduleInvariants(t, in, result)
}

func TestGenerateTimetableAccountsForTaughtHours(t *testing.T) {
	module := fixtureModule("cm-1", "Programming Basics", 1, 6, fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00")))
	module.taughtHours = 4
	in := fixtureInput(t, []engineModule{module})

	result := generateTimetable(in)

	require.Len(t, result.summary, 1)
	assert.True(t, result.summary[0].Completed)
	assert.Equal(t, 6, result.summary[0].ScheduledHours)

	generated := 0
	for _, session := range result.sessions {
		generated += (session.end - session.start) / 60
	}
	assert.Equal(t, 2, generated)
}

func TestGenerateTimetableDeterministic(t *testing.T) {
	build := func() engineResult {
		trainer := fixtureTrainer("tr-1", "Ana", weekdayWindows(t, "2025-01-06", 5, "09:00", "17:00"))
		return generateTimetable(fixtureInput(t, []engineModule{
			fixtureModule("cm-1", "Module One", 1, 5, trainer),
			fixtureModule("cm-2", "Module Two", 2, 7, trainer),
		}))
	}

	first := build()
	second := build()

	require.Equal(t, len(first.sessions), len(second.sessions))
	for i := range first.sessions {
		assert.Equal(t, first.sessions[i], second.sessions[i])
	}
	assert.Equal(t, first.summary, second.summary)
}

func TestGenerateTimetableSafetyOverrunTerminates(t *testing.T) {
	// A trainer available only outside the teaching window can never host a
	// session; the run must still terminate.
	in := fixtureInput(t, []engineModule{
		fixtureModule("cm-1", "Programming Basics", 1, 6, fixtureTrainer("tr-1", "Ana", []availabilityWindow{
			{date: testDay("2025-01-06"), start: parseClock("18:00"), end: parseClock("20:00")},
		})),
	})

	done := make(chan engineResult, 1)
	go func() { done <- generateTimetable(in) }()

	select {
	case result := <-done:
		assert.Empty(t, result.sessions)
		assert.False(t, result.summary[0].Completed)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not terminate")
	}
}

// --- Fixtures ---

func testDay(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// fixtureInput builds a class running Mon 2025-01-06 through Fri 2025-01-10
// with a 09:00-17:00 methodology, one hour lunch at noon and one classroom.
func fixtureInput(t *testing.T, modules []engineModule) engineInput {
	t.Helper()
	return engineInput{
		classID:    "cl-1",
		classStart: testDay("2025-01-06"),
		classEnd:   testDay("2025-01-10"),
		template: dayTemplate{
			dayStart:   parseClock("09:00"),
			dayEnd:     parseClock("17:00"),
			lunchStart: parseClock("12:00"),
			lunchEnd:   parseClock("13:00"),
		},
		modules: modules,
		rooms:   []engineRoom{{id: "rm-1", name: "Room 1", category: "classroom"}},
		config:  engineConfig{maxBlockHours: 3, minBlockHours: 1, maxActiveModules: 3, overrunMonths: 6},
	}
}

func fixtureModule(id, name string, priority, hours int, trainer *engineTrainer) engineModule {
	return engineModule{
		curriculumModuleID: id,
		name:               name,
		priority:           priority,
		requiredHours:      hours,
		trainer:            trainer,
	}
}

func fixtureTrainer(id, name string, windows []availabilityWindow) *engineTrainer {
	return &engineTrainer{id: id, name: name, windows: windows}
}

// weekdayWindows declares availability on consecutive weekdays starting at the
// given date, skipping weekends.
func weekdayWindows(t *testing.T, start string, days int, from, to string) []availabilityWindow {
	t.Helper()
	windows := make([]availabilityWindow, 0, days)
	cursor := testDay(start)
	for len(windows) < days {
		if !isWeekend(cursor) {
			windows = append(windows, availabilityWindow{
				date:  cursor,
				start: parseClock(from),
				end:   parseClock(to),
			})
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return windows
}

// assertScheduleInvariants checks the structural guarantees every generated
// calendar must satisfy.
func assertScheduleInvariants(t *testing.T, in engineInput, result engineResult) {
	t.Helper()

	all := append(append([]bookedSession(nil), in.committed...), result.sessions...)

	for _, session := range result.sessions {
		require.Less(t, session.start, session.end)
		hours := (session.end - session.start) / 60
		assert.GreaterOrEqual(t, hours, in.config.minBlockHours)
		assert.LessOrEqual(t, hours, in.config.maxBlockHours)
		assert.False(t, isWeekend(session.date))
		assert.False(t, newHolidayCalendar().IsHoliday(session.date))
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if !a.date.Equal(b.date) || !overlaps(a.start, a.end, b.start, b.end) {
				continue
			}
			assert.NotEqual(t, a.roomID, b.roomID, "room double booked on %s", a.date)
			assert.NotEqual(t, a.trainerID, b.trainerID, "trainer double booked on %s", a.date)
			assert.NotEqual(t, a.classID, b.classID, "class double booked on %s", a.date)
		}
	}

	// Generated sessions must sit inside a declared availability window and
	// never exceed the module's required hours.
	trainers := make(map[string]*engineTrainer)
	totals := make(map[string]int)
	for _, module := range in.modules {
		if module.trainer != nil {
			trainers[module.trainer.id] = module.trainer
		}
		totals[module.curriculumModuleID] = module.taughtHours
	}
	for _, session := range result.sessions {
		trainer := trainers[session.trainerID]
		require.NotNil(t, trainer)
		covered := false
		for _, w := range trainer.windows {
			if w.date.Equal(session.date) && w.start <= session.start && w.end >= session.end {
				covered = true
				break
			}
		}
		assert.True(t, covered, "session outside declared availability on %s", session.date)
		totals[session.curriculumModuleID] += (session.end - session.start) / 60
	}
	for _, module := range in.modules {
		assert.LessOrEqual(t, totals[module.curriculumModuleID], module.requiredHours)
	}
}
