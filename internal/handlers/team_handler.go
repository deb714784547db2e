package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/team"

	"github.com/gin-gonic/gin"
)

type TeamMemberRequest struct {
	Email      string `json:"email" binding:"required,email"`
	FullName   string `json:"full_name" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=manager accountant fuel_cashier supermarket_cashier restaurant_cashier"`
	Department string `json:"department" binding:"required"`
}

// --- POST /api/team ---
// Creating a member goes through the privileged account-creation callable,
// which provisions the login and emails the credentials. Only after it
// succeeds do we store the local profile row.
func CreateTeamMember(c *gin.Context) {
	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := identity(c)
	var inviter models.Profile
	database.DB.First(&inviter, userID)

	client := team.NewClient(os.Getenv("ACCOUNT_FUNCTION_URL"), os.Getenv("ACCOUNT_FUNCTION_TOKEN"))
	err := client.CreateAccount(c.Request.Context(), team.InviteRequest{
		Email:        req.Email,
		Role:         req.Role,
		Department:   req.Department,
		FullName:     req.FullName,
		InviterName:  inviter.FullName,
		BusinessName: os.Getenv("BUSINESS_NAME"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	profile := models.Profile{
		Email:      req.Email,
		FullName:   req.FullName,
		Role:       req.Role,
		Department: req.Department,
		Active:     true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created but the local profile could not be saved"})
		return
	}

	audit(userID, "invite", "profile", profile.ID, req.Email)
	c.JSON(http.StatusCreated, profile)
}

// --- GET /api/team ---
func ListTeam(c *gin.Context) {
	var members []models.Profile
	if err := database.DB.Order("full_name asc").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// --- PUT /api/team/:id/deactivate ---
// Soft delete: the row stays (the approval trail points at it), the login is
// disabled. The director role itself can never be deactivated.
func DeactivateTeamMember(c *gin.Context) {
	var member models.Profile
	if err := database.DB.First(&member, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	if member.Role == "director" {
		c.JSON(http.StatusForbidden, gin.H{"error": "The director account cannot be deactivated"})
		return
	}

	now := time.Now()
	member.Active = false
	member.DeactivatedAt = &now

	if err := database.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate member"})
		return
	}

	userID, _ := identity(c)
	audit(userID, "deactivate", "profile", member.ID, member.Email)
	c.JSON(http.StatusOK, member)
}

type RoleChangeRequest struct {
	Role       string `json:"role" binding:"required,oneof=manager accountant fuel_cashier supermarket_cashier restaurant_cashier"`
	Department string `json:"department"`
}

// --- PUT /api/team/:id/role ---
func ChangeTeamMemberRole(c *gin.Context) {
	var member models.Profile
	if err := database.DB.First(&member, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	// Same exemption as deactivation: the director's role is fixed.
	if member.Role == "director" {
		c.JSON(http.StatusForbidden, gin.H{"error": "The director's role cannot be changed"})
		return
	}

	var req RoleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	member.Role = req.Role
	if req.Department != "" {
		member.Department = req.Department
	}

	if err := database.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	userID, _ := identity(c)
	audit(userID, "role_change", "profile", member.ID, req.Role)
	c.JSON(http.StatusOK, member)
}
