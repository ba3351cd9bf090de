package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/assignment"
)

// defaultTaskWindow is how far ahead a staff listing reaches without a to date
const defaultTaskWindow = 7 * 24 * time.Hour

// AssignmentHandler handles HTTP requests for staff task assignments
type AssignmentHandler struct {
	assignmentService service.AssignmentService
	logger            *slog.Logger
	now               func() time.Time
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(logger *slog.Logger, assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
		now:               time.Now,
	}
}

// Create assigns a task to a staff member for one shift
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		RespondBadRequest(c, "Invalid staff ID")
		return
	}
	shiftDate, err := time.Parse(time.DateOnly, req.ShiftDate)
	if err != nil {
		RespondBadRequest(c, "Invalid shift date")
		return
	}
	assignedBy, err := parseOptionalUUID("assigned_by", req.AssignedBy)
	if err != nil {
		respondError(c, h.logger, "assign task", err)
		return
	}

	task, err := h.assignmentService.Assign(c.Request.Context(), assignment.NewTaskParams{
		StaffID:     staffID,
		Title:       req.Title,
		Description: req.Description,
		Shift:       assignment.Shift(req.Shift),
		ShiftDate:   shiftDate,
		AssignedBy:  assignedBy,
	})
	if err != nil {
		respondError(c, h.logger, "assign task", err)
		return
	}

	RespondCreated(c, mapTaskToResponse(task))
}

// Complete marks an open task done
func (h *AssignmentHandler) Complete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid task ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.assignmentService.Complete(c.Request.Context(), id, h.now())
	if err != nil {
		respondError(c, h.logger, "complete task", err)
		return
	}

	RespondOK(c, mapTaskToResponse(task))
}

// ListForStaff returns a staff member's tasks between two shift dates
func (h *AssignmentHandler) ListForStaff(c *gin.Context) {
	idParam := c.Param("id")
	staffID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid staff ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid staff ID")
		return
	}

	var query StaffTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	from := h.now().UTC().Truncate(24 * time.Hour)
	if query.From != "" {
		from, _ = time.Parse(time.DateOnly, query.From)
	}
	to := from.Add(defaultTaskWindow)
	if query.To != "" {
		to, _ = time.Parse(time.DateOnly, query.To)
	}

	tasks, err := h.assignmentService.ListForStaff(c.Request.Context(), staffID, from, to)
	if err != nil {
		respondError(c, h.logger, "list tasks", err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, mapTaskToResponse(task))
	}
	RespondOK(c, response)
}

// mapTaskToResponse maps a task entity to a task response DTO
func mapTaskToResponse(t *assignment.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		StaffID:     t.StaffID.String(),
		Title:       t.Title,
		Description: t.Description,
		Shift:       string(t.Shift),
		ShiftDate:   t.ShiftDate.Format(time.DateOnly),
		Status:      string(t.Status),
		AssignedBy:  formatOptionalUUID(t.AssignedBy),
		CompletedAt: formatOptionalTime(t.CompletedAt),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}
