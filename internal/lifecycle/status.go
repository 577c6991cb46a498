package lifecycle

import (
	"fmt"
	"time"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
)

// Status is a workflow stage of a maintenance request.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusRepaired   Status = "repaired"
	StatusScrap      Status = "scrap"
)

// Statuses lists every valid stage in kanban column order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusRepaired, StatusScrap}

// StageLabels maps stages to their display labels.
var StageLabels = map[Status]string{
	StatusNew:        "New",
	StatusInProgress: "In Progress",
	StatusRepaired:   "Repaired",
	StatusScrap:      "Scrap",
}

// transitions is the single allowed-transition table, enforced server-side.
// repaired and scrap are terminal.
var transitions = map[Status][]Status{
	StatusNew:        {StatusInProgress, StatusScrap},
	StatusInProgress: {StatusRepaired, StatusScrap},
	StatusRepaired:   {},
	StatusScrap:      {},
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return s, nil
}

// CanTransition reports whether moving from one stage to another is allowed.
// A same-stage write is a permitted no-op.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the stages reachable from the given one.
func AllowedTransitions(from Status) []Status {
	return transitions[from]
}

// IsTerminal reports whether no transition leaves the given stage.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Priority levels and their display color tokens. This map is the single
// source of truth for both kanban badges and calendar chips.
var priorityColors = map[string]string{
	"high":   "red",
	"medium": "amber",
	"low":    "green",
}

// PriorityColor maps a priority to its color token. Unknown values get gray.
func PriorityColor(priority string) string {
	if c, ok := priorityColors[priority]; ok {
		return c
	}
	return "gray"
}

// IsOverdue reports whether the request's scheduled date has passed while the
// request is still open. Requests in a terminal stage are never overdue.
// The comparison is date-only; time-of-day is irrelevant.
func IsOverdue(req *model.MaintenanceRequest, now time.Time) bool {
	if req.ScheduledDate == nil {
		return false
	}
	s := Status(req.Status)
	if s == StatusRepaired || s == StatusScrap {
		return false
	}
	sy, sm, sd := req.ScheduledDate.Date()
	ny, nm, nd := now.Date()
	scheduled := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return scheduled.Before(today)
}
