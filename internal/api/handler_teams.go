package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// teamView is a team with its member count.
type teamView struct {
	model.Team
	MemberCount int `json:"member_count"`
}

// ListTeams handles GET /api/teams.
func (h *Handler) ListTeams(c *gin.Context) {
	db := h.store.DB().WithContext(c.Request.Context())

	q := db.Model(&model.Team{})
	if search := c.Query("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var teams []model.Team
	if err := q.Order("name ASC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve teams"})
		return
	}

	// One aggregate query for all member counts.
	type countRow struct {
		TeamID string
		N      int
	}
	var counts []countRow
	if err := db.Model(&model.TeamMember{}).
		Select("team_id as team_id, COUNT(*) as n").
		Group("team_id").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count team members"})
		return
	}
	countMap := make(map[string]int, len(counts))
	for _, row := range counts {
		countMap[row.TeamID] = row.N
	}

	views := make([]teamView, 0, len(teams))
	for _, team := range teams {
		views = append(views, teamView{Team: team, MemberCount: countMap[team.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": len(views)})
}

type teamBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateTeam handles POST /api/teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	var body teamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var existing model.Team
	if err := db.First(&existing, "name = ?", body.Name).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Team name already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check team name"})
		return
	}

	team := model.Team{
		ID:          uuid.NewString(),
		Name:        body.Name,
		Description: body.Description,
	}
	if err := db.Create(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create team"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusCreated, teamView{Team: team})
}

// GetTeam handles GET /api/teams/:id, including members.
func (h *Handler) GetTeam(c *gin.Context) {
	var team model.Team
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Members.User").
		First(&team, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve team"})
		return
	}
	c.JSON(http.StatusOK, teamView{Team: team, MemberCount: len(team.Members)})
}

type teamUpdateBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateTeam handles PUT /api/teams/:id.
func (h *Handler) UpdateTeam(c *gin.Context) {
	var body teamUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var team model.Team
	if err := db.First(&team, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve team"})
		return
	}

	if body.Name != nil {
		team.Name = *body.Name
	}
	if body.Description != nil {
		team.Description = *body.Description
	}
	if err := db.Save(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update team"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusOK, teamView{Team: team})
}

// DeleteTeam handles DELETE /api/teams/:id.
func (h *Handler) DeleteTeam(c *gin.Context) {
	if err := h.store.DeleteTeam(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete team"})
		return
	}
	h.reloadSnapshot(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// ListTeamMembers handles GET /api/teams/:id/members.
func (h *Handler) ListTeamMembers(c *gin.Context) {
	db := h.store.DB().WithContext(c.Request.Context())

	var team model.Team
	if err := db.First(&team, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve team"})
		return
	}

	var members []model.TeamMember
	if err := db.Preload("User").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

type addMemberBody struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddTeamMember handles POST /api/teams/:id/members.
func (h *Handler) AddTeamMember(c *gin.Context) {
	var body addMemberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var team model.Team
	if err := db.First(&team, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve team"})
		return
	}
	var user model.User
	if err := db.First(&user, "id = ?", body.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve user"})
		return
	}

	var existing model.TeamMember
	if err := db.First(&existing, "team_id = ? AND user_id = ?", team.ID, user.ID).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "User is already a member of this team"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check membership"})
		return
	}

	member := model.TeamMember{
		ID:     uuid.NewString(),
		TeamID: team.ID,
		UserID: user.ID,
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add member"})
		return
	}
	member.User = user
	c.JSON(http.StatusCreated, member)
}

// RemoveTeamMember handles DELETE /api/teams/:id/members/:user_id.
func (h *Handler) RemoveTeamMember(c *gin.Context) {
	db := h.store.DB().WithContext(c.Request.Context())

	res := db.Where("team_id = ? AND user_id = ?", c.Param("id"), c.Param("user_id")).
		Delete(&model.TeamMember{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to remove member"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Membership not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
