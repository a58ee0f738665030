package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue              TaskQueue
	auditRetentionDays int
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue TaskQueue, auditRetentionDays int) *TasksController {
	return &TasksController{queue: queue, auditRetentionDays: auditRetentionDays}
}

// TaskInfo is the payload of task endpoints.
type TaskInfo struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status"`
}

// GetTaskStatus handles GET /tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "Task")
		return
	}

	respondSuccess(c, http.StatusOK, TaskInfo{ID: taskID, Status: taskStatusToString(status)})
}

// RunTask handles POST /tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	switch taskType {
	case "cleanup_audit_events":
		id, err := tc.queue.EnqueueAuditCleanup(tc.auditRetentionDays)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to enqueue task")
			return
		}
		respondSuccess(c, http.StatusAccepted, TaskInfo{ID: id, Type: taskType, Status: "pending"})
	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
	}
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
