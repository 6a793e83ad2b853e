package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/conv"
	"github.com/sandevgo/chatlens/pkg/log"
)

// formatHTML marks a message body captured as markup.
const formatHTML = "html"

type messageRequest struct {
	ChatID   string        `json:"chatId"`
	Platform core.Platform `json:"platform"`
	URL      string        `json:"url"`
	Format   string        `json:"format"`
	Message  core.Message  `json:"message"`
}

type contextRequest struct {
	ChatID   string        `json:"chatId"`
	Platform core.Platform `json:"platform"`
	Title    string        `json:"title"`
	URL      string        `json:"url"`
}

type taskRequest struct {
	Task   string `json:"task"`
	ChatID string `json:"chatId"`
}

type groupResponse struct {
	Main   core.KeyPoint   `json:"main"`
	Points []core.KeyPoint `json:"points"`
}

// detectPlatform maps the page a capture script runs on to its platform.
func detectPlatform(url string) core.Platform {
	switch {
	case strings.Contains(url, "web.telegram.org"):
		return core.PlatformTelegram
	case strings.Contains(url, "web.whatsapp.com"):
		return core.PlatformWhatsApp
	}
	return ""
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": core.AppVersion})
}

// submitMessage acknowledges every well-formed capture; rejected
// messages are still a success from the capture script's point of view.
func (s *Server) submitMessage(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Platform == "" {
		req.Platform = detectPlatform(req.URL)
	}
	if req.Platform != "" && !req.Platform.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown platform "+string(req.Platform))
	}

	switch req.Format {
	case "", "text":
	case formatHTML:
		text, err := conv.HTMLToText(req.Message.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid html message body")
		}
		req.Message.Text = text
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown format "+req.Format)
	}

	// a tab left open on another platform keeps posting; drop its messages
	if active, ok := s.engine.ActiveContext(); ok && req.Platform != "" &&
		active.Platform != "" && active.Platform != req.Platform {
		log.FromCtx(c.UserContext()).Debug().
			Str("chat_id", req.ChatID).
			Str("platform", string(req.Platform)).
			Str("active_platform", string(active.Platform)).
			Msg("message from another platform ignored")
		return reply(c, core.Success(""))
	}
	return reply(c, s.engine.SubmitMessage(c.UserContext(), req.ChatID, req.Message))
}

func (s *Server) setContext(c *fiber.Ctx) error {
	var req contextRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Platform == "" {
		req.Platform = detectPlatform(req.URL)
	}
	cc := core.ConversationContext{ChatID: req.ChatID, Platform: req.Platform, Title: req.Title}
	return reply(c, s.engine.SetActiveContext(c.UserContext(), cc))
}

func (s *Server) contexts(c *fiber.Ctx) error {
	active, ok := s.engine.ActiveContext()
	out := fiber.Map{"contexts": s.engine.Contexts()}
	if ok {
		out["active"] = active
	}
	return c.JSON(out)
}

func (s *Server) query(c *fiber.Ctx) error {
	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return reply(c, s.engine.Query(c.UserContext(), req.Task, req.ChatID))
}

func (s *Server) ask(c *fiber.Ctx) error {
	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.AskTimeout)
	defer cancel()
	return reply(c, s.engine.Ask(ctx, req.Task, req.ChatID))
}

// groups returns the key-point groups of one day; ?date=DD/MM/YYYY,
// today when omitted.
func (s *Server) groups(c *fiber.Ctx) error {
	groups, err := s.engine.Groups(c.Params("id"), c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{Main: g.Main, Points: g.Points})
	}
	return c.JSON(fiber.Map{"groups": out})
}

func reply(c *fiber.Ctx, res core.Result) error {
	if !res.OK() {
		c.Status(fiber.StatusUnprocessableEntity)
	}
	return c.JSON(res)
}
