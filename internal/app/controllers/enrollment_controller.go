package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/app/services"
	"github.com/yigit/courseselect/internal/middleware"
)

// EnrollmentController handles course selection endpoints
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// SelectCourse reserves a seat in an offering for the caller
// @Summary Select a course offering
// @Description Reserves a seat in the offering for the authenticated student
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectCourseRequest true "Offering to select"
// @Success 201 {object} dto.APIResponse{data=dto.SelectCourseResponse} "Seat reserved"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 404 {object} dto.APIResponse "Offering or current term not found"
// @Failure 409 {object} dto.APIResponse "Rejected: full, closed, duplicate or over the credit limit"
// @Router /enrollments [post]
func (c *EnrollmentController) SelectCourse(ctx *gin.Context) {
	var req dto.SelectCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	userID := middleware.UserIDFromContext(ctx)
	enrollmentID, err := c.enrollmentService.SelectCourse(ctx, userID, req.OfferingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(dto.SelectCourseResponse{
		EnrollmentID: enrollmentID,
	}))
}

// DropCourse withdraws the caller from an offering
// @Summary Drop a course offering
// @Description Withdraws the authenticated student from the offering within the drop window
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param offeringId path int true "Offering ID"
// @Success 200 {object} dto.APIResponse "Dropped"
// @Failure 400 {object} dto.APIResponse "Invalid offering ID"
// @Failure 409 {object} dto.APIResponse "Not selected or drop window expired"
// @Router /enrollments/{offeringId} [delete]
func (c *EnrollmentController) DropCourse(ctx *gin.Context) {
	offeringID, err := strconv.ParseInt(ctx.Param("offeringId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID := middleware.UserIDFromContext(ctx)
	if err := c.enrollmentService.DropCourse(ctx, userID, offeringID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"dropped": true}))
}

// GetMyCourses lists the caller's selected courses in the current term
// @Summary List my selected courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Selected enrollments"
// @Router /enrollments/my [get]
func (c *EnrollmentController) GetMyCourses(ctx *gin.Context) {
	userID := middleware.UserIDFromContext(ctx)
	enrollments, err := c.enrollmentService.GetMyCourses(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(enrollments))
}

// GetCreditPosition reports the caller's credit usage in the current term
// @Summary Get my credit position
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CreditPositionResponse} "Credit position"
// @Router /enrollments/credits [get]
func (c *EnrollmentController) GetCreditPosition(ctx *gin.Context) {
	userID := middleware.UserIDFromContext(ctx)
	position, err := c.enrollmentService.GetCreditPosition(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(dto.CreditPositionResponse{
		TermID:     position.TermID,
		Credits:    position.Credits,
		MaxCredits: position.MaxCredits,
	}))
}

// GetRoster lists the students selected into an offering
// @Summary List students of an offering
// @Description Returns the roster; only the offering's teacher may view it
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Success 200 {object} dto.APIResponse "Roster"
// @Failure 403 {object} dto.APIResponse "Offering belongs to another teacher"
// @Router /offerings/{id}/roster [get]
func (c *EnrollmentController) GetRoster(ctx *gin.Context) {
	offeringID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID := middleware.UserIDFromContext(ctx)
	roster, err := c.enrollmentService.GetRoster(ctx, userID, offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(roster))
}
