package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gh300site/internal/http/middleware"
	"gh300site/internal/view"
)

// errorPayload defines the JSON error body for clients that prefer JSON.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type errorInfo struct {
	code    string
	message string
}

var errorsByStatus = map[int]errorInfo{
	fiber.StatusBadRequest:         {"BAD_REQUEST", "請求無效 Bad Request"},
	fiber.StatusNotFound:           {"NOT_FOUND", "找不到頁面 Not Found"},
	fiber.StatusMethodNotAllowed:   {"METHOD_NOT_ALLOWED", "不允許的方法 Method Not Allowed"},
	fiber.StatusServiceUnavailable: {"SERVICE_UNAVAILABLE", "服務暫時無法使用 Service Unavailable"},
}

var internalError = errorInfo{"INTERNAL_ERROR", "伺服器錯誤 Internal Server Error"}

func lookupError(status int) errorInfo {
	if info, ok := errorsByStatus[status]; ok {
		return info
	}
	return internalError
}

// writeError writes the JSON error envelope. detail is only set in debug mode.
func writeError(c *fiber.Ctx, status int, code, message, detail string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Detail:  detail,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler. Browsers get an HTML
// error page, JSON clients the error envelope. In debug mode the raw error
// text is included; otherwise only the generic message is shown.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		info := lookupError(status)
		detail := ""
		if debug {
			detail = err.Error()
		}

		if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
			return writeError(c, status, info.code, info.message, detail)
		}

		c.Status(status)
		renderErr := c.Render(view.PageError, view.ErrorPage{
			Page:    basePage(c, info.message, "", debug),
			Status:  status,
			Message: info.message,
			Detail:  detail,
		})
		if renderErr != nil {
			// The error page itself failed; fall back to plain text.
			return c.Status(status).SendString(info.message)
		}
		return nil
	}
}
