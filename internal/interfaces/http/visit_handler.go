package http

import (
	"errors"
	"time"

	"github.com/adhcode/estate-backend/internal/application"
	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VisitHandler struct {
	visits   *application.VisitService
	actors   *application.ActorService
	limiter  *application.RateLimiter
	validate *validator.Validate
}

// NewVisitHandler creates a new instance of the visit handler.
func NewVisitHandler(visits *application.VisitService, actors *application.ActorService, limiter *application.RateLimiter) *VisitHandler {
	return &VisitHandler{
		visits:   visits,
		actors:   actors,
		limiter:  limiter,
		validate: validator.New(),
	}
}

// RegisterVisitRequest is the payload for registering a visitor.
type RegisterVisitRequest struct {
	FullName       string  `json:"fullName" validate:"required,min=2,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	PhoneNumber    *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	PurposeOfVisit *string `json:"purposeOfVisit" validate:"omitempty,max=255"`
	VisitDate      string  `json:"visitDate" validate:"required"`
	VisitTime      string  `json:"visitTime" validate:"required"`
}

// ReportIssueRequest is the payload for reporting an issue on a visit.
type ReportIssueRequest struct {
	Description string `json:"description" validate:"required"`
}

// resolveActor resolves the authenticated principal into a typed actor.
func (h *VisitHandler) resolveActor(c *fiber.Ctx) (domain.Actor, error) {
	userID, ok := currentUserID(c)
	if !ok {
		return domain.Actor{}, domain.ErrActorNotFound
	}
	return h.actors.Resolve(userID)
}

// RegisterVisit creates a new pending visit for the actor's household.
func (h *VisitHandler) RegisterVisit(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.limiter.Allow(actor.PrimaryResidentID.String()); err != nil {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req RegisterVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visitDate format. Use YYYY-MM-DD",
		})
	}

	visit := &domain.Visit{
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		PurposeOfVisit: req.PurposeOfVisit,
		VisitDate:      visitDate,
		VisitTime:      req.VisitTime,
	}

	if err := h.visits.RegisterVisit(actor, visit); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Visit registered successfully",
		"data":    visit,
	})
}

// ListVisits returns the filtered, paginated staff logbook together with
// the status-count summary of the filtered collection.
func (h *VisitHandler) ListVisits(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	filter := application.VisitFilter{
		Block:  c.Query("block"),
		Date:   c.Query("date"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date format. Use YYYY-MM-DD",
			})
		}
	}

	page := c.QueryInt("page", 1)
	size := c.QueryInt("pageSize", application.DefaultPageSize)

	visits, err := h.visits.ListVisits(actor)
	if err != nil {
		return respondError(c, err)
	}

	filtered := application.FilterVisits(visits, filter)

	return c.JSON(fiber.Map{
		"data":     application.Paginate(filtered, page, size),
		"total":    len(filtered),
		"page":     page,
		"pageSize": size,
		"counts":   application.StatusCounts(filtered),
	})
}

// GetOverview returns dashboard status counts for the whole logbook.
func (h *VisitHandler) GetOverview(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	visits, err := h.visits.ListVisits(actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"counts": application.StatusCounts(visits),
		"total":  len(visits),
	})
}

// GetHouseholdHistory returns the actor's own guest history.
func (h *VisitHandler) GetHouseholdHistory(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	visits, err := h.visits.GetHouseholdHistory(actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":   visits,
		"counts": application.StatusCounts(visits),
	})
}

// GetVisitByID fetches a single visit by row id.
func (h *VisitHandler) GetVisitByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	visit, err := h.visits.GetVisitByID(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": visit,
	})
}

// GetVisitByCode fetches a visit by its human-shareable guest code. For
// flagged visits the most recent issue rides along in the response.
func (h *VisitHandler) GetVisitByCode(c *fiber.Ctx) error {
	visit, err := h.visits.GetVisitByGuestCode(c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"data": visit}
	if visit.Status == domain.VisitIssue {
		issue, err := h.visits.GetLatestIssue(visit.GuestCode)
		if err != nil && !errors.Is(err, domain.ErrIssueNotFound) {
			return respondError(c, err)
		}
		if issue != nil {
			resp["latestIssue"] = issue
		}
	}

	return c.JSON(resp)
}

// CheckIn marks a guest's arrival.
func (h *VisitHandler) CheckIn(c *fiber.Ctx) error {
	return h.transition(c, func(actor domain.Actor, id uuid.UUID) (*domain.Visit, error) {
		return h.visits.CheckIn(actor, id)
	}, "Guest checked in successfully")
}

// CheckOut marks a guest's departure.
func (h *VisitHandler) CheckOut(c *fiber.Ctx) error {
	return h.transition(c, func(actor domain.Actor, id uuid.UUID) (*domain.Visit, error) {
		return h.visits.CheckOut(actor, id)
	}, "Guest checked out successfully")
}

// Cancel voids a pending visit.
func (h *VisitHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, func(actor domain.Actor, id uuid.UUID) (*domain.Visit, error) {
		return h.visits.Cancel(actor, id)
	}, "Visit cancelled successfully")
}

// ResolveIssue closes an open issue and completes the visit.
func (h *VisitHandler) ResolveIssue(c *fiber.Ctx) error {
	return h.transition(c, func(actor domain.Actor, id uuid.UUID) (*domain.Visit, error) {
		return h.visits.ResolveIssue(actor, id)
	}, "Issue resolved successfully")
}

// transition shares the id-parse / resolve / respond plumbing of the
// four body-less lifecycle endpoints.
func (h *VisitHandler) transition(c *fiber.Ctx, op func(domain.Actor, uuid.UUID) (*domain.Visit, error), message string) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	visit, err := op(actor, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": message,
		"data":    visit,
	})
}

// ReportIssue records a problem on an active visit.
func (h *VisitHandler) ReportIssue(c *fiber.Ctx) error {
	actor, err := h.resolveActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	var req ReportIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	visit, err := h.visits.ReportIssue(actor, id, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Issue reported successfully",
		"data":    visit,
	})
}

// GetIssues returns the issues reported on a visit, newest first.
func (h *VisitHandler) GetIssues(c *fiber.Ctx) error {
	if _, err := h.resolveActor(c); err != nil {
		return respondError(c, err)
	}

	issues, err := h.visits.GetIssueHistory(c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": issues,
	})
}
