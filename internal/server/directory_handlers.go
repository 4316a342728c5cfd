package server

import (
	"follicle/internal/models"
	"follicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetHospitals handles GET /api/hospitals
func (s *Server) GetHospitals(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	hospitals, err := s.directoryService.ListHospitals(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(hospitals)
}

// GetHospital handles GET /api/hospitals/:id
func (s *Server) GetHospital(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	hospital, err := s.directoryService.GetHospital(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(hospital)
}

// GetHospitalReviews handles GET /api/hospitals/:id/reviews
func (s *Server) GetHospitalReviews(c *fiber.Ctx) error {
	return s.listReviews(c, models.ReviewTargetHospital)
}

// CreateHospital handles POST /api/admin/hospitals
func (s *Server) CreateHospital(c *fiber.Ctx) error {
	var req struct {
		Name      string `json:"name"`
		Address   string `json:"address,omitempty"`
		Phone     string `json:"phone,omitempty"`
		Specialty string `json:"specialty,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	hospital, err := s.directoryService.CreateHospital(c.Context(), service.CreateHospitalInput{
		AdminID:   currentUserID(c),
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hospital)
}

// GetProducts handles GET /api/products
func (s *Server) GetProducts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	products, err := s.directoryService.ListProducts(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.directoryService.GetProduct(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// GetProductReviews handles GET /api/products/:id/reviews
func (s *Server) GetProductReviews(c *fiber.Ctx) error {
	return s.listReviews(c, models.ReviewTargetProduct)
}

// CreateProduct handles POST /api/admin/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Brand       string `json:"brand,omitempty"`
		Description string `json:"description,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.directoryService.CreateProduct(c.Context(), service.CreateProductInput{
		AdminID:     currentUserID(c),
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (s *Server) listReviews(c *fiber.Ctx, targetKind string) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	reviews, err := s.reviewService.ListReviews(c.Context(), targetKind, targetID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reviews)
}

// CreateReview handles POST /api/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var req struct {
		TargetKind string `json:"target_kind"`
		TargetID   uint   `json:"target_id"`
		Rating     int    `json:"rating"`
		Content    string `json:"content,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateReview(c.Context(), service.CreateReviewInput{
		AuthorID:   currentUserID(c),
		TargetKind: req.TargetKind,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.DeleteReview(c.Context(), currentUserID(c), reviewID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
