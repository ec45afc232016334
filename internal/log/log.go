package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetOutput redirects all subsequent log writes (e.g. stdout + file).
func SetOutput(w io.Writer) {
	logger = zerolog.New(w).With().Timestamp().Logger()
}

func write(ev *zerolog.Event, c *fiber.Ctx, action string, fields map[string]any) {
	ev = ev.Str("action", action).Time("ts", time.Now().UTC())
	if c != nil {
		ev = ev.Str("ip", c.IP()).Str("method", c.Method()).Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			ev = ev.Str("user_id", uid)
		}
	}
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Info(), c, action, fields)
}

// Audit records state-changing business actions (order placed, status moved).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Info().Str("kind", "audit"), c, action, fields)
}

// Security records denied access, validation failures, throttling hits.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Warn().Str("kind", "security"), c, action, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logger.Error().Err(err), c, action, fields)
}
