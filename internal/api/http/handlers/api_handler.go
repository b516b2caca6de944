package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/api/dto"
	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/dispatch"
	"github.com/spec-kit/school-auth-service/internal/events"
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// injectedPrefix marks keys only the transport may set.
const injectedPrefix = "__"

// APIHandler serves /api/:moduleName/:fnName through the dispatch registry.
type APIHandler struct {
	registry *dispatch.Registry
	injector *auth.Injector
	events   events.Dispatcher
	logger   *zap.Logger
}

// NewAPIHandler constructs handler.
func NewAPIHandler(registry *dispatch.Registry, injector *auth.Injector, dispatcher events.Dispatcher, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{registry: registry, injector: injector, events: dispatcher, logger: logger}
}

// Dispatch handles ANY /api/:moduleName/:fnName.
func (h *APIHandler) Dispatch(c *fiber.Ctx) error {
	module, fn := c.Params("moduleName"), c.Params("fnName")

	op, ok := h.registry.Lookup(module, fn)
	if !ok || !op.Exposed {
		return apperrors.NewNotFound("operation", map[string]any{"operation": module + "." + fn})
	}

	input, err := requestInput(c)
	if err != nil {
		return err
	}

	for _, key := range op.Requires {
		val, err := h.injector.Inject(c, key)
		if err != nil {
			h.reject(c, op, key)
			return err
		}
		input[key] = val
	}

	if len(op.Roles) > 0 {
		claims, _ := auth.ClaimsFromContext(c)
		if err := auth.RequireRole(claims, op.Roles...); err != nil {
			return err
		}
	}

	out, err := h.registry.Call(c.UserContext(), module, fn, input)
	if err != nil {
		if de := apperrors.ToDomainError(err); de.HTTPStatus >= fiber.StatusInternalServerError {
			h.logger.Error("operation failed", zap.String("operation", op.Name()), zap.Error(err))
		}
		return err
	}

	return c.JSON(dto.Envelope{OK: true, Data: out})
}

func (h *APIHandler) reject(c *fiber.Ctx, op dispatch.Operation, key string) {
	if h.events == nil {
		return
	}
	_ = h.events.Publish(c.UserContext(), events.Event{
		Type: events.EventTokenRejected,
		Payload: events.TokenRejectedPayload{
			Operation: op.Name(),
			Key:       key,
			RemoteIP:  c.IP(),
		},
	})
}

// requestInput merges query parameters and the JSON or form body. Keys with
// the injected prefix are dropped so callers cannot forge session values.
func requestInput(c *fiber.Ctx) (dispatch.Input, error) {
	input := dispatch.Input{}

	for k, v := range c.Queries() {
		input[k] = v
	}

	if len(c.Body()) > 0 {
		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		switch {
		case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
			body := map[string]any{}
			if err := c.BodyParser(&body); err != nil {
				return nil, apperrors.NewValidationError("invalid payload", nil)
			}
			for k, v := range body {
				input[k] = v
			}
		case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
			c.Request().PostArgs().VisitAll(func(k, v []byte) {
				input[string(k)] = string(v)
			})
		}
	}

	for k := range input {
		if strings.HasPrefix(k, injectedPrefix) {
			delete(input, k)
		}
	}
	return input, nil
}
