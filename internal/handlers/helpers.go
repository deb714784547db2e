package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
)

// identity pulls the caller's id and role out of the context set by the auth
// middleware. The workflow layer does the real role enforcement; this just
// tells it who is acting.
func identity(c *gin.Context) (uint, workflow.Role) {
	return c.MustGet("userID").(uint), workflow.Role(c.MustGet("role").(string))
}

// stampApproval writes the acting user into the stage-specific approver
// column for the status the transition just produced. Exactly one pair of
// columns is touched per transition; earlier stages are left as they are.
func stampApproval(trail *models.ApprovalTrail, newStatus workflow.Status, actorID uint, now time.Time) {
	switch newStatus {
	case workflow.StatusAccountantApproved, workflow.StatusApprovedByAccountant:
		trail.AccountantID = &actorID
		trail.AccountantAt = &now
	case workflow.StatusManagerApproved, workflow.StatusApprovedByManager:
		trail.ManagerID = &actorID
		trail.ManagerAt = &now
	case workflow.StatusDirectorApproved:
		trail.DirectorID = &actorID
		trail.DirectorAt = &now
	}
}

// stampRejection records who rejected the entity and why.
func stampRejection(trail *models.ApprovalTrail, actorID uint, reason string, now time.Time) {
	trail.RejectedByID = &actorID
	trail.RejectedAt = &now
	trail.RejectionReason = reason
}

// audit writes one trail row per transition. Best effort: a failed audit
// insert never rolls back the transition it describes.
func audit(userID uint, action string, entity workflow.EntityType, entityID uint, details string) {
	database.DB.Create(&models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: string(entity),
		EntityID:   entityID,
		Details:    details,
	})
}

// vatRate reads the configured tax rate, defaulting to 18% VAT.
func vatRate() float64 {
	if s := os.Getenv("VAT_RATE"); s != "" {
		if r, err := strconv.ParseFloat(s, 64); err == nil {
			return r
		}
	}
	return 0.18
}

// evaporationRate reads the configured daily evaporation fraction.
func evaporationRate() float64 {
	if s := os.Getenv("FUEL_EVAPORATION_RATE"); s != "" {
		if r, err := strconv.ParseFloat(s, 64); err == nil {
			return r
		}
	}
	return 0.001
}

// RejectRequest is the shared body for every reject endpoint. The reason is
// mandatory - the workflow layer refuses a rejection without one.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// workflowErrorStatus maps workflow sentinel errors onto HTTP statuses.
func workflowErrorStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrWrongActor):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrTerminalStatus):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrReasonRequired), errors.Is(err, workflow.ErrUnknownStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
