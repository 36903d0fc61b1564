package http

import (
	"github.com/adhcode/estate-backend/internal/application"
	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	members  *application.MemberService
	actors   *application.ActorService
	validate *validator.Validate
}

// NewMemberHandler creates a new instance of the household member handler.
func NewMemberHandler(members *application.MemberService, actors *application.ActorService) *MemberHandler {
	return &MemberHandler{
		members:  members,
		actors:   actors,
		validate: validator.New(),
	}
}

// AddMemberRequest is the payload for adding a household member.
type AddMemberRequest struct {
	FullName     string  `json:"fullName" validate:"required,min=2,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	PhoneNumber  *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Relationship string  `json:"relationship" validate:"required,max=50"`
}

// AddMember registers a new member under the acting resident's household.
func (h *MemberHandler) AddMember(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondError(c, domain.ErrActorNotFound)
	}
	actor, err := h.actors.Resolve(userID)
	if err != nil {
		return respondError(c, err)
	}

	var req AddMemberRequest
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

	member := &domain.HouseholdMember{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Relationship: req.Relationship,
	}

	if err := h.members.AddMember(actor, member); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Household member added successfully",
		"data":    member,
	})
}

// ListMembers returns the members of the actor's own household.
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondError(c, domain.ErrActorNotFound)
	}
	actor, err := h.actors.Resolve(userID)
	if err != nil {
		return respondError(c, err)
	}

	members, err := h.members.ListMembers(actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": members,
	})
}
