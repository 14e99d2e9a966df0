package controller

import (
	"strings"
	"time"

	"english-tutor-be/internal/dto"
	"english-tutor-be/internal/pkg/serverutils"
	"english-tutor-be/internal/service"
	"english-tutor-be/pkg/tutor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "tutor_session"
)

type ITutorController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	SwitchMode(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type tutorController struct {
	tutorService  service.ITutorService
	providerName  string
	archiveActive bool
	cookieTTL     time.Duration
}

func NewTutorController(tutorService service.ITutorService, providerName string, archiveActive bool, cookieTTL time.Duration) ITutorController {
	return &tutorController{
		tutorService:  tutorService,
		providerName:  providerName,
		archiveActive: archiveActive,
		cookieTTL:     cookieTTL,
	}
}

func (c *tutorController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/mode", c.SwitchMode)
	r.Get("/feedback", c.Feedback)
	r.Post("/clear", c.Clear)
	r.Get("/session", c.Session)
	r.Get("/health", c.Health)
}

func (c *tutorController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tutorService.SendMessage(ctx.UserContext(), c.sessionID(ctx), &req)
	if err != nil {
		return serverutils.WithDraft(err, req.Message)
	}

	return ctx.JSON(res)
}

func (c *tutorController) SwitchMode(ctx *fiber.Ctx) error {
	var req dto.ModeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tutorService.SwitchMode(ctx.UserContext(), c.sessionID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *tutorController) Feedback(ctx *fiber.Ctx) error {
	res, err := c.tutorService.Feedback(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *tutorController) Clear(ctx *fiber.Ctx) error {
	res, err := c.tutorService.Clear(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *tutorController) Session(ctx *fiber.Ctx) error {
	res, err := c.tutorService.GetSession(ctx.UserContext(), c.sessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *tutorController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", &dto.HealthResponse{
		Status:      "ok",
		LLMProvider: c.providerName,
		Archive:     c.archiveActive,
	}))
}

// sessionID resolves the caller's session from the header, then the cookie.
// A caller with neither gets a new id back as a cookie.
func (c *tutorController) sessionID(ctx *fiber.Ctx) string {
	if id := strings.TrimSpace(ctx.Get(SessionHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(ctx.Cookies(SessionCookie)); id != "" {
		return id
	}

	id := uuid.NewString()
	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.cookieTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	ctx.Set(SessionHeader, id)
	return id
}

func invalidBody() error {
	return &tutor.ValidationError{Field: "body", Message: "must be a valid JSON object"}
}
