package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/lifecycle"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/mw"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// requestView is a request plus the attributes the classifier derives for
// display. Both kanban and calendar build on the same derivations.
type requestView struct {
	model.MaintenanceRequest
	IsOverdue     bool   `json:"is_overdue"`
	PriorityColor string `json:"priority_color"`
	StageLabel    string `json:"stage_label"`
}

func viewOf(req model.MaintenanceRequest, now time.Time) requestView {
	return requestView{
		MaintenanceRequest: req,
		IsOverdue:          lifecycle.IsOverdue(&req, now),
		PriorityColor:      lifecycle.PriorityColor(req.Priority),
		StageLabel:         lifecycle.StageLabels[lifecycle.Status(req.Status)],
	}
}

// parseDate accepts a bare calendar date or a full RFC3339 timestamp.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListRequests handles GET /api/requests with optional filters.
func (h *Handler) ListRequests(c *gin.Context) {
	filter := store.RequestFilter{
		Status:      c.Query("status_filter"),
		RequestType: c.Query("request_type"),
		EquipmentID: c.Query("equipment_id"),
		TeamID:      c.Query("team_id"),
		AssignedTo:  c.Query("assigned_to"),
		Reference:   c.Query("reference"),
		Search:      c.Query("search"),
	}
	if filter.Status != "" {
		if _, err := lifecycle.ParseStatus(filter.Status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	}

	requests, err := h.store.ListRequests(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve requests"})
		return
	}

	now := time.Now().UTC()
	views := make([]requestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, viewOf(req, now))
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": len(views)})
}

type createRequestBody struct {
	Subject           string  `json:"subject" binding:"required"`
	Description       string  `json:"description"`
	RequestType       string  `json:"request_type" binding:"required,oneof=corrective preventive"`
	Priority          string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	EquipmentID       *string `json:"equipment_id"`
	MaintenanceTeamID *string `json:"maintenance_team_id"`
	AssignedTo        *string `json:"assigned_to"`
	ScheduledDate     string  `json:"scheduled_date"`
	Notes             string  `json:"notes"`
	Instructions      string  `json:"instructions"`
}

// CreateRequest handles POST /api/requests. New requests always start in the
// "new" stage.
func (h *Handler) CreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	scheduled, err := parseDate(body.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid scheduled_date. Use YYYY-MM-DD or RFC3339."})
		return
	}

	claims := mw.ClaimsFrom(c)
	request, err := h.store.CreateRequest(c.Request.Context(), store.CreateRequestInput{
		Subject:           body.Subject,
		Description:       body.Description,
		RequestType:       body.RequestType,
		Priority:          body.Priority,
		EquipmentID:       body.EquipmentID,
		MaintenanceTeamID: body.MaintenanceTeamID,
		AssignedTo:        body.AssignedTo,
		ScheduledDate:     scheduled,
		Notes:             body.Notes,
		Instructions:      body.Instructions,
		CreatedBy:         claims.UserID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create request"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusCreated, viewOf(*request, time.Now().UTC()))
}

// GetRequest handles GET /api/requests/:id.
func (h *Handler) GetRequest(c *gin.Context) {
	request, err := h.store.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve request"})
		return
	}
	c.JSON(http.StatusOK, viewOf(*request, time.Now().UTC()))
}

type updateRequestBody struct {
	Subject           *string `json:"subject"`
	Description       *string `json:"description"`
	Priority          *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	EquipmentID       *string `json:"equipment_id"`
	MaintenanceTeamID *string `json:"maintenance_team_id"`
	AssignedTo        *string `json:"assigned_to"`
	ScheduledDate     *string `json:"scheduled_date"`
	Notes             *string `json:"notes"`
	Instructions      *string `json:"instructions"`
}

// UpdateRequest handles PUT /api/requests/:id. Status cannot be changed here;
// that goes through the status endpoint.
func (h *Handler) UpdateRequest(c *gin.Context) {
	var body updateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	in := store.UpdateRequestInput{
		Subject:           body.Subject,
		Description:       body.Description,
		Priority:          body.Priority,
		EquipmentID:       body.EquipmentID,
		MaintenanceTeamID: body.MaintenanceTeamID,
		AssignedTo:        body.AssignedTo,
		Notes:             body.Notes,
		Instructions:      body.Instructions,
	}
	if body.ScheduledDate != nil {
		scheduled, err := parseDate(*body.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid scheduled_date. Use YYYY-MM-DD or RFC3339."})
			return
		}
		in.ScheduledDate = scheduled
	}

	request, err := h.store.UpdateRequest(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update request"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusOK, viewOf(*request, time.Now().UTC()))
}

// DeleteRequest handles DELETE /api/requests/:id.
func (h *Handler) DeleteRequest(c *gin.Context) {
	if err := h.store.DeleteRequest(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete request"})
		return
	}
	h.reloadSnapshot(c.Request.Context())
	c.Status(http.StatusNoContent)
}

type statusUpdateBody struct {
	Status        string   `json:"status" binding:"required"`
	DurationHours *float64 `json:"duration_hours"`
	Comment       string   `json:"comment"`
}

// UpdateStatus handles PATCH /api/requests/:id/status, the transition
// endpoint behind kanban drag-drop. A drag to "repaired" carries the
// duration-capture step in the body; the status never changes client-side
// until this call confirms it.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var body statusUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	target, err := lifecycle.ParseStatus(body.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	claims := mw.ClaimsFrom(c)
	request, err := h.store.Transition(c.Request.Context(), c.Param("id"), target, store.TransitionInput{
		DurationHours: body.DurationHours,
		Comment:       body.Comment,
		ChangedBy:     claims.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Request not found"})
		case errors.Is(err, store.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update status"})
		}
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusOK, viewOf(*request, time.Now().UTC()))
}

// GetRequestHistory handles GET /api/requests/:id/history.
func (h *Handler) GetRequestHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetRequest(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve request"})
		return
	}

	history, err := h.store.RequestHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// kanbanCard is the summary a board column shows for one request.
type kanbanCard struct {
	ID            string      `json:"id"`
	Reference     string      `json:"reference"`
	Subject       string      `json:"subject"`
	Priority      string      `json:"priority"`
	PriorityColor string      `json:"priority_color"`
	IsOverdue     bool        `json:"is_overdue"`
	ScheduledDate *time.Time  `json:"scheduled_date"`
	EquipmentName string      `json:"equipment_name,omitempty"`
	Technician    *model.User `json:"technician,omitempty"`
}

type kanbanColumn struct {
	Stage      string       `json:"stage"`
	StageLabel string       `json:"stage_label"`
	Count      int          `json:"count"`
	Cards      []kanbanCard `json:"cards"`
}

// GetKanban handles GET /api/requests/kanban: the four lifecycle columns
// computed from the snapshot.
func (h *Handler) GetKanban(c *gin.Context) {
	snap, err := h.holder.Ensure(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load requests"})
		return
	}

	teamID := c.Query("team_id")
	now := time.Now().UTC()

	equipmentNames := make(map[string]string, len(snap.Equipment))
	for _, e := range snap.Equipment {
		equipmentNames[e.ID] = e.Name
	}
	users := make(map[string]model.User, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u
	}

	byStage := make(map[lifecycle.Status][]kanbanCard)
	for _, req := range snap.Requests {
		if teamID != "" && (req.MaintenanceTeamID == nil || *req.MaintenanceTeamID != teamID) {
			continue
		}
		card := kanbanCard{
			ID:            req.ID,
			Reference:     req.Reference,
			Subject:       req.Subject,
			Priority:      req.Priority,
			PriorityColor: lifecycle.PriorityColor(req.Priority),
			IsOverdue:     lifecycle.IsOverdue(&req, now),
			ScheduledDate: req.ScheduledDate,
		}
		if req.EquipmentID != nil {
			card.EquipmentName = equipmentNames[*req.EquipmentID]
		}
		if req.AssignedTo != nil {
			if u, ok := users[*req.AssignedTo]; ok {
				card.Technician = &u
			}
		}
		stage := lifecycle.Status(req.Status)
		byStage[stage] = append(byStage[stage], card)
	}

	columns := make([]kanbanColumn, 0, len(lifecycle.Statuses))
	total := 0
	for _, stage := range lifecycle.Statuses {
		cards := byStage[stage]
		if cards == nil {
			cards = []kanbanCard{}
		}
		columns = append(columns, kanbanColumn{
			Stage:      string(stage),
			StageLabel: lifecycle.StageLabels[stage],
			Count:      len(cards),
			Cards:      cards,
		})
		total += len(cards)
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns, "total_requests": total})
}

// calendarEvent is the chip a calendar cell shows for one request.
type calendarEvent struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	Subject       string     `json:"subject"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	PriorityColor string     `json:"priority_color"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

type calendarCell struct {
	Day    int             `json:"day"`
	Events []calendarEvent `json:"events"`
	More   int             `json:"more"`
}

// GetCalendar handles GET /api/requests/calendar?year=&month= (month 1-12).
// Cells with more than two events collapse the rest into a "more" count.
func (h *Handler) GetCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid month"})
		return
	}

	snap, err := h.holder.Ensure(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load requests"})
		return
	}

	shape, cells := lifecycle.MonthGrid(snap.Requests, year, month-1)

	out := make([]calendarCell, 0, len(cells))
	for _, cell := range cells {
		events := make([]calendarEvent, 0, len(cell.Visible))
		for _, req := range cell.Visible {
			events = append(events, calendarEvent{
				ID:            req.ID,
				Reference:     req.Reference,
				Subject:       req.Subject,
				Status:        req.Status,
				Priority:      req.Priority,
				PriorityColor: lifecycle.PriorityColor(req.Priority),
				ScheduledDate: req.ScheduledDate,
			})
		}
		out = append(out, calendarCell{Day: cell.Day, Events: events, More: cell.More})
	}

	c.JSON(http.StatusOK, gin.H{
		"year":          year,
		"month":         month,
		"days":          shape.Days,
		"first_weekday": int(shape.FirstWeekday),
		"cells":         out,
	})
}
