package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/app/services"
	"github.com/yigit/courseselect/internal/middleware"
)

// CatalogController handles course, offering and term management endpoints
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// CreateCourse handles course creation
// @Summary Create a course
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse "Course created"
// @Failure 409 {object} dto.APIResponse "Course code already exists"
// @Router /courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	course, err := c.catalogService.CreateCourse(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(course))
}

// GetAllCourses lists the course catalog
// @Summary List courses
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse "Courses"
// @Router /courses [get]
func (c *CatalogController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.catalogService.GetAllCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(courses))
}

// CreateOffering schedules an offering of a course
// @Summary Create an offering
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOfferingRequest true "Offering information"
// @Success 201 {object} dto.APIResponse "Offering created"
// @Router /offerings [post]
func (c *CatalogController) CreateOffering(ctx *gin.Context) {
	var req dto.CreateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	offering, err := c.catalogService.CreateOffering(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(offering))
}

// UpdateOfferingStatus changes an offering's lifecycle status
// @Summary Update offering status
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Param request body dto.UpdateOfferingStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Router /offerings/{id}/status [put]
func (c *CatalogController) UpdateOfferingStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering ID")))
		return
	}

	var req dto.UpdateOfferingStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	if err := c.catalogService.UpdateOfferingStatus(ctx, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"updated": true}))
}

// UpdateOfferingCapacity changes an offering's capacity
// @Summary Update offering capacity
// @Description Allowed only while the offering has no active enrollments
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Param request body dto.UpdateOfferingCapacityRequest true "New capacity"
// @Success 200 {object} dto.APIResponse "Capacity updated"
// @Failure 409 {object} dto.APIResponse "Offering has active enrollments"
// @Router /offerings/{id}/capacity [put]
func (c *CatalogController) UpdateOfferingCapacity(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering ID")))
		return
	}

	var req dto.UpdateOfferingCapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid capacity data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	if err := c.catalogService.UpdateOfferingCapacity(ctx, id, req.Capacity); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"updated": true}))
}

// CreateTerm creates an academic term
// @Summary Create a term
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTermRequest true "Term information"
// @Success 201 {object} dto.APIResponse "Term created"
// @Router /terms [post]
func (c *CatalogController) CreateTerm(ctx *gin.Context) {
	var req dto.CreateTermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid term data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	term, err := c.catalogService.CreateTerm(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(term))
}

// SetCurrentTerm designates the current term
// @Summary Set the current term
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse "Current term set"
// @Router /terms/{id}/current [put]
func (c *CatalogController) SetCurrentTerm(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid term ID")))
		return
	}

	if err := c.catalogService.SetCurrentTerm(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(gin.H{"updated": true}))
}

// GetAllTerms lists all terms
// @Summary List terms
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse "Terms"
// @Router /terms [get]
func (c *CatalogController) GetAllTerms(ctx *gin.Context) {
	terms, err := c.catalogService.GetAllTerms(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(terms))
}

// ListAvailableOfferings lists current-term offerings for the caller
// @Summary List available offerings
// @Description Current-term offerings annotated with whether the caller could select each
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Offerings"
// @Router /offerings/available [get]
func (c *CatalogController) ListAvailableOfferings(ctx *gin.Context) {
	userID := middleware.UserIDFromContext(ctx)
	offerings, err := c.catalogService.ListAvailableOfferings(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(offerings))
}
