package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type rosterService interface {
	Divisions(section string) ([]dto.DivisionSummary, error)
	Classes(section, division string) ([]dto.ClassSummary, error)
	Students(filter dto.StudentFilter) ([]models.Student, error)
	Student(id string) (*dto.StudentDetail, error)
}

// RosterHandler exposes roster navigation endpoints.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(service rosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// Divisions godoc
// @Summary List divisions of a section
// @Tags Roster
// @Produce json
// @Param section path string true "Boys or Girls"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sections/{section}/divisions [get]
func (h *RosterHandler) Divisions(c *gin.Context) {
	start := time.Now()
	divisions, err := h.service.Divisions(c.Param("section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, divisions, withMeta(c, start, map[string]interface{}{"count": len(divisions)}))
}

// Classes godoc
// @Summary List classes of a division
// @Tags Roster
// @Produce json
// @Param section path string true "Boys or Girls"
// @Param division path string true "Division"
// @Success 200 {object} response.Envelope
// @Router /sections/{section}/divisions/{division}/classes [get]
func (h *RosterHandler) Classes(c *gin.Context) {
	start := time.Now()
	classes, err := h.service.Classes(c.Param("section"), c.Param("division"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, withMeta(c, start, map[string]interface{}{"count": len(classes)}))
}

// Students godoc
// @Summary List the students of a class
// @Tags Roster
// @Produce json
// @Param section query string true "Boys or Girls"
// @Param division query string true "Division"
// @Param class query string true "Class"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) Students(c *gin.Context) {
	start := time.Now()
	filter := dto.StudentFilter{
		Section:  strings.TrimSpace(c.Query("section")),
		Division: strings.TrimSpace(c.Query("division")),
		Class:    strings.TrimSpace(c.Query("class")),
	}
	if filter.Section == "" || filter.Division == "" || filter.Class == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "section, division and class are required"))
		return
	}
	students, err := h.service.Students(filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, withMeta(c, start, map[string]interface{}{"count": len(students)}))
}

// Student godoc
// @Summary Get a student with their absence history
// @Tags Roster
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *RosterHandler) Student(c *gin.Context) {
	start := time.Now()
	detail, err := h.service.Student(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, withMeta(c, start, nil))
}
