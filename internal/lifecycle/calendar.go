package lifecycle

import (
	"time"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
)

// VisibleEventsPerCell is how many requests a calendar cell shows before
// collapsing the rest behind a "+N more" indicator.
const VisibleEventsPerCell = 2

// MonthShape describes the grid for one month: how many day cells it has and
// the weekday of day 1 (0 = Sunday), used to left-pad the grid.
type MonthShape struct {
	Days         int
	FirstWeekday time.Weekday
}

// DaysInMonth returns the shape of the given month. The month index is
// zero-based (0 = January), matching the projector's callers.
func DaysInMonth(year, month int) MonthShape {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC)
	return MonthShape{
		Days:         last.Day(),
		FirstWeekday: first.Weekday(),
	}
}

// RequestsOnDate filters the snapshot to requests scheduled on the given
// calendar date. Comparison ignores time-of-day; order is the snapshot's
// insertion order.
func RequestsOnDate(requests []model.MaintenanceRequest, date time.Time) []model.MaintenanceRequest {
	y, m, d := date.Date()
	matched := []model.MaintenanceRequest{}
	for _, req := range requests {
		if req.ScheduledDate == nil {
			continue
		}
		ry, rm, rd := req.ScheduledDate.Date()
		if ry == y && rm == m && rd == d {
			matched = append(matched, req)
		}
	}
	return matched
}

// DayCell is one day of the month projection. Visible holds at most
// VisibleEventsPerCell requests; More counts the rest.
type DayCell struct {
	Day     int
	Visible []model.MaintenanceRequest
	More    int
}

// MonthGrid projects the snapshot onto the given month (zero-based index).
// Every day of the month gets a cell, including empty ones.
func MonthGrid(requests []model.MaintenanceRequest, year, month int) (MonthShape, []DayCell) {
	shape := DaysInMonth(year, month)
	cells := make([]DayCell, shape.Days)
	for day := 1; day <= shape.Days; day++ {
		date := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
		matched := RequestsOnDate(requests, date)
		cell := DayCell{Day: day, Visible: matched}
		if len(matched) > VisibleEventsPerCell {
			cell.Visible = matched[:VisibleEventsPerCell]
			cell.More = len(matched) - VisibleEventsPerCell
		}
		cells[day-1] = cell
	}
	return shape, cells
}
