package service

import (
	"fmt"
	"time"

	"github.com/Brekey53/atec-admin-api/internal/dto"
)

// Module completion diagnostics, most actionable first.
const (
	diagCompleted        = "completed"
	diagNoTrainer        = "module has no assigned trainer"
	diagNoAvailability   = "trainer has no registered availability"
	diagStaleWindows     = "trainer has no availability windows beyond %s"
	diagClassEndReached  = "class end date reached before module completion"
	diagNoCompatibleSlot = "no compatible slot found; check schedule conflicts, room compatibility, or holidays"
)

// dayTemplate is a methodology resolved to minutes from midnight.
type dayTemplate struct {
	dayStart   int
	dayEnd     int
	lunchStart int
	lunchEnd   int
}

// timeBlock is a candidate window within one day, in minutes from midnight.
type timeBlock struct {
	start int
	end   int
}

// availabilityWindow is a declared bookable range for a trainer on one day.
type availabilityWindow struct {
	date  time.Time
	start int
	end   int
}

type engineTrainer struct {
	id      string
	name    string
	windows []availabilityWindow
}

type engineRoom struct {
	id       string
	name     string
	category string
}

// engineModule is one curriculum entry with its flattened metadata.
// A nil trainer means the module cannot be scheduled at all.
type engineModule struct {
	curriculumModuleID string
	name               string
	priority           int
	requiredHours      int
	taughtHours        int
	roomCategories     []string
	trainer            *engineTrainer
}

// bookedSession participates in every overlap check after it is committed.
type bookedSession struct {
	classID            string
	curriculumModuleID string
	trainerID          string
	roomID             string
	date               time.Time
	start              int
	end                int
}

type engineConfig struct {
	maxBlockHours    int
	minBlockHours    int
	maxActiveModules int
	overrunMonths    int
}

func (c engineConfig) withDefaults() engineConfig {
	if c.maxBlockHours <= 0 {
		c.maxBlockHours = 3
	}
	if c.minBlockHours <= 0 {
		c.minBlockHours = 1
	}
	if c.maxActiveModules <= 0 {
		c.maxActiveModules = 3
	}
	if c.overrunMonths <= 0 {
		c.overrunMonths = 6
	}
	return c
}

// engineInput is the fully resolved material for one scheduling run. The
// committed set must already contain every session of other classes sharing
// trainers or rooms with this one.
type engineInput struct {
	classID    string
	classStart time.Time
	classEnd   time.Time
	minStart   *time.Time
	template   dayTemplate
	modules    []engineModule
	rooms      []engineRoom
	committed  []bookedSession
	config     engineConfig
}

type engineResult struct {
	sessions []bookedSession
	summary  []dto.ModuleSummaryEntry
}

// moduleRun tracks scheduling progress of one module during a run.
type moduleRun struct {
	engineModule
	scheduledHours int
}

func (m *moduleRun) remainingHours() int {
	return m.requiredHours - m.taughtHours - m.scheduledHours
}

// moduleQueue keeps pending modules in priority order and bounds how many are
// worked on simultaneously.
type moduleQueue struct {
	pending   []*moduleRun
	active    []*moduleRun
	maxActive int
}

func newModuleQueue(modules []*moduleRun, maxActive int) *moduleQueue {
	q := &moduleQueue{pending: modules, maxActive: maxActive}
	q.refill()
	return q
}

func (q *moduleQueue) refill() {
	for len(q.active) < q.maxActive && len(q.pending) > 0 {
		q.active = append(q.active, q.pending[0])
		q.pending = q.pending[1:]
	}
}

func (q *moduleQueue) hasActive() bool {
	return len(q.active) > 0
}

// snapshot returns the modules eligible for the current slot. Modules pulled
// in by a refill become eligible from the next slot on.
func (q *moduleQueue) snapshot() []*moduleRun {
	out := make([]*moduleRun, len(q.active))
	copy(out, q.active)
	return out
}

func (q *moduleQueue) remove(m *moduleRun) {
	for i, candidate := range q.active {
		if candidate == m {
			q.active = append(q.active[:i], q.active[i+1:]...)
			return
		}
	}
}

// drop removes a finished or unschedulable module and refills the window.
func (q *moduleQueue) drop(m *moduleRun) {
	q.remove(m)
	q.refill()
}

// rotate moves a partially scheduled module to the back of the active window
// so concurrent modules alternate across slots.
func (q *moduleQueue) rotate(m *moduleRun) {
	q.remove(m)
	q.active = append(q.active, m)
}

// timetableEngine runs one deterministic, single-threaded scheduling pass.
type timetableEngine struct {
	classID   string
	classEnd  time.Time
	template  dayTemplate
	rooms     []engineRoom
	committed []bookedSession
	generated []bookedSession
	holidays  *holidayCalendar
	config    engineConfig
}

func newTimetableEngine(in engineInput) *timetableEngine {
	return &timetableEngine{
		classID:   in.classID,
		classEnd:  dateOnly(in.classEnd),
		template:  in.template,
		rooms:     in.rooms,
		committed: in.committed,
		holidays:  newHolidayCalendar(),
		config:    in.config.withDefaults(),
	}
}

// generateTimetable is the scheduler driver: it walks the calendar day by day,
// offers each day's slots to the active modules and commits the first feasible
// assignment per slot.
func generateTimetable(in engineInput) engineResult {
	e := newTimetableEngine(in)

	runs := make([]*moduleRun, len(in.modules))
	for i := range in.modules {
		runs[i] = &moduleRun{engineModule: in.modules[i]}
	}
	queue := newModuleQueue(append([]*moduleRun(nil), runs...), e.config.maxActiveModules)

	cursor := dateOnly(in.classStart)
	if in.minStart != nil {
		if override := dateOnly(*in.minStart); override.After(cursor) {
			cursor = override
		}
	}
	// Guard against unbounded iteration on unschedulable configurations.
	safetyDeadline := e.classEnd.AddDate(0, e.config.overrunMonths, 0)

	endDateExceeded := false
	slots := slotsForDay(e.template, e.config.maxBlockHours, e.config.minBlockHours)

	for queue.hasActive() {
		if cursor.After(safetyDeadline) {
			break
		}
		if cursor.After(e.classEnd) {
			endDateExceeded = true
			break
		}
		if isWeekend(cursor) || e.holidays.IsHoliday(cursor) {
			cursor = cursor.AddDate(0, 0, 1)
			continue
		}

		for _, slot := range slots {
			if !queue.hasActive() {
				break
			}
			// One session per slot: the class cannot attend two at once.
			e.fillSlot(queue, cursor, slot)
		}

		cursor = cursor.AddDate(0, 0, 1)
	}

	return engineResult{
		sessions: e.generated,
		summary:  buildSummary(runs, e.classEnd, endDateExceeded),
	}
}

// fillSlot offers the slot to each active module in turn and commits the
// first feasible assignment. It reports whether the slot was filled.
func (e *timetableEngine) fillSlot(queue *moduleQueue, day time.Time, slot timeBlock) bool {
	for _, module := range queue.snapshot() {
		if module.remainingHours() <= 0 {
			queue.drop(module)
			continue
		}
		if module.trainer == nil {
			// Structural staffing gap, reported in the summary, never retried.
			queue.drop(module)
			continue
		}

		ceiling := module.remainingHours()
		if slotHours := (slot.end - slot.start) / 60; slotHours < ceiling {
			ceiling = slotHours
		}
		if e.config.maxBlockHours < ceiling {
			ceiling = e.config.maxBlockHours
		}

		for hours := ceiling; hours >= e.config.minBlockHours; hours-- {
			end := slot.start + hours*60
			room := e.firstCompatibleRoom(module, day, slot.start, end)
			if room == nil {
				continue
			}
			if !e.classFree(day, slot.start, end) {
				continue
			}
			if !e.trainerFree(module.trainer, day, slot.start, end) {
				continue
			}

			session := bookedSession{
				classID:            e.classID,
				curriculumModuleID: module.curriculumModuleID,
				trainerID:          module.trainer.id,
				roomID:             room.id,
				date:               day,
				start:              slot.start,
				end:                end,
			}
			e.committed = append(e.committed, session)
			e.generated = append(e.generated, session)
			module.scheduledHours += hours

			if module.remainingHours() > 0 {
				queue.rotate(module)
			} else {
				queue.drop(module)
			}
			return true
		}
	}
	return false
}

// slotsForDay packs candidate windows at block granularity: morning blocks up
// to lunch start, afternoon blocks from lunch end to day end. The template is
// constant for the whole run, so the result is identical for every day.
func slotsForDay(tpl dayTemplate, maxBlockHours, minBlockHours int) []timeBlock {
	blocks := packBlocks(nil, tpl.dayStart, tpl.lunchStart, maxBlockHours, minBlockHours)
	return packBlocks(blocks, tpl.lunchEnd, tpl.dayEnd, maxBlockHours, minBlockHours)
}

func packBlocks(dst []timeBlock, start, limit, maxBlockHours, minBlockHours int) []timeBlock {
	for start+minBlockHours*60 <= limit {
		hours := (limit - start) / 60
		if hours > maxBlockHours {
			hours = maxBlockHours
		}
		end := start + hours*60
		dst = append(dst, timeBlock{start: start, end: end})
		start = end
	}
	return dst
}

// firstCompatibleRoom picks the first room, in inventory order, whose category
// suits the module and which is free for the candidate window.
func (e *timetableEngine) firstCompatibleRoom(module *moduleRun, day time.Time, start, end int) *engineRoom {
	for i := range e.rooms {
		room := &e.rooms[i]
		if !roomCompatible(module.roomCategories, room.category) {
			continue
		}
		if e.roomFree(room.id, day, start, end) {
			return room
		}
	}
	return nil
}

// roomCompatible applies the subject-type constraint: an empty category list
// admits any room.
func roomCompatible(categories []string, roomCategory string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, category := range categories {
		if category == roomCategory {
			return true
		}
	}
	return false
}

func (e *timetableEngine) roomFree(roomID string, day time.Time, start, end int) bool {
	for _, s := range e.committed {
		if s.roomID == roomID && s.date.Equal(day) && overlaps(start, end, s.start, s.end) {
			return false
		}
	}
	return true
}

func (e *timetableEngine) classFree(day time.Time, start, end int) bool {
	for _, s := range e.committed {
		if s.classID == e.classID && s.date.Equal(day) && overlaps(start, end, s.start, s.end) {
			return false
		}
	}
	return true
}

// trainerFree is two-phase: a declared availability window must fully cover
// the candidate before committed sessions are even consulted. A trainer with
// no covering window is never free, whatever the calendar says.
func (e *timetableEngine) trainerFree(trainer *engineTrainer, day time.Time, start, end int) bool {
	covered := false
	for _, w := range trainer.windows {
		if w.date.Equal(day) && w.start <= start && w.end >= end {
			covered = true
			break
		}
	}
	if !covered {
		return false
	}
	for _, s := range e.committed {
		if s.trainerID == trainer.id && s.date.Equal(day) && overlaps(start, end, s.start, s.end) {
			return false
		}
	}
	return true
}

// buildSummary emits one entry per curriculum module, in priority order, with
// the first matching diagnostic.
func buildSummary(runs []*moduleRun, classEnd time.Time, endDateExceeded bool) []dto.ModuleSummaryEntry {
	entries := make([]dto.ModuleSummaryEntry, 0, len(runs))
	for _, m := range runs {
		scheduled := m.taughtHours + m.scheduledHours
		entry := dto.ModuleSummaryEntry{
			CurriculumModuleID: m.curriculumModuleID,
			ModuleName:         m.name,
			TrainerName:        "none",
			RequiredHours:      m.requiredHours,
			ScheduledHours:     scheduled,
			Completed:          scheduled == m.requiredHours,
		}
		if m.trainer != nil {
			entry.TrainerName = m.trainer.name
		}

		switch {
		case entry.Completed:
			entry.Diagnostic = diagCompleted
		case m.trainer == nil:
			entry.Diagnostic = diagNoTrainer
		case len(m.trainer.windows) == 0:
			entry.Diagnostic = diagNoAvailability
		case latestWindowDate(m.trainer).Before(classEnd):
			entry.Diagnostic = fmt.Sprintf(diagStaleWindows, latestWindowDate(m.trainer).Format("2006-01-02"))
		case endDateExceeded && m.scheduledHours > 0:
			entry.Diagnostic = diagClassEndReached
		default:
			entry.Diagnostic = diagNoCompatibleSlot
		}
		entries = append(entries, entry)
	}
	return entries
}

func latestWindowDate(trainer *engineTrainer) time.Time {
	var latest time.Time
	for _, w := range trainer.windows {
		if w.date.After(latest) {
			latest = w.date
		}
	}
	return latest
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseClock converts an "HH:MM" wire value to minutes from midnight.
func parseClock(raw string) int {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// parseClockStrict is parseClock for values loaded from stored rows, where a
// malformed clock must stop the run instead of collapsing to midnight.
func parseClockStrict(raw string) (int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", raw, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatClock renders minutes from midnight as "HH:MM".
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
