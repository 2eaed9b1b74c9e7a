package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct{}

// GET /chat
func (h *ChatHandler) View(c *fiber.Ctx) error {
	msgs, pending := visitor(c).Chat.Transcript()
	return render(c, "chat", fiber.Map{"Messages": msgs, "Pending": pending})
}

// POST /chat waits for the assistant and shows the updated conversation.
// Failures are part of the transcript.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	_ = visitor(c).Chat.Send(c.UserContext(), c.FormValue("message"))
	return c.Redirect("/chat")
}
