package server

import (
	"follicle/internal/models"
	"follicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		TargetKind string `json:"target_kind"`
		TargetID   uint   `json:"target_id"`
		Reason     string `json:"reason"`
		Detail     string `json:"detail,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.CreateReport(c.Context(), service.CreateReportInput{
		ReporterID: currentUserID(c),
		TargetKind: models.TargetKind(req.TargetKind),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Detail:     req.Detail,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports
func (s *Server) GetReports(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	reports, err := s.reportService.ListReports(c.Context(), currentUserID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// ResolveReport handles POST /api/admin/reports/:id/resolve
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.ResolveReport(c.Context(), currentUserID(c), reportID, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}
