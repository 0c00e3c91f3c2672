package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"accredapi/internal/model"
	"accredapi/internal/service"
)

// scopeRequest is the shared program/area/parameter/category narrowing of count routes.
// Hierarchy rules are enforced by service.ValidateScope.
type scopeRequest struct {
	Program   int64  `query:"program"`
	Area      int64  `query:"area"`
	Parameter int64  `query:"parameter"`
	Category  string `query:"category"`
	By        string `query:"by"`
}

func (r scopeRequest) scope() model.Scope {
	return model.Scope{
		ProgramID:   r.Program,
		AreaID:      r.Area,
		ParameterID: r.Parameter,
		Category:    model.Category(r.Category),
	}
}

// GetCounts godoc
// @Summary Per-status document counts
// @Tags counts
// @Produce json
// @Param program query int false "program id"
// @Param area query int false "area id (requires program)"
// @Param parameter query int false "parameter id (requires area)"
// @Param category query string false "category (requires parameter)"
// @Success 200 {object} model.StatusCounts
// @Failure 422 {object} errorPayload
// @Router /counts [get]
func GetCounts(svc service.AggregateService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scopeRequest
		if err := c.QueryParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
		}
		counts, err := svc.Counts(c.UserContext(), req.scope())
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(counts)
	}
}

// GetBreakdown godoc
// @Summary Grouped status counts
// @Tags counts
// @Produce json
// @Param by query string true "program, area or parameter"
// @Param program query int false "program id"
// @Param area query int false "area id"
// @Param parameter query int false "parameter id"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} errorPayload
// @Router /counts/breakdown [get]
func GetBreakdown(svc service.AggregateService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scopeRequest
		if err := c.QueryParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
		}
		rows, err := svc.Breakdown(c.UserContext(), req.By, req.scope())
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(fiber.Map{"data": rows})
	}
}

// ListPrograms godoc
// @Summary List programs
// @Tags programs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /programs [get]
func ListPrograms(svc service.AggregateService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		programs, err := svc.Programs(c.UserContext())
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(fiber.Map{"data": programs})
	}
}

// GetNavigation godoc
// @Summary Program tree with review counts
// @Tags programs
// @Produce json
// @Param id path int true "program id"
// @Success 200 {object} service.NavProgram
// @Failure 404 {object} errorPayload
// @Router /programs/{id}/navigation [get]
func GetNavigation(svc service.AggregateService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tree, err := svc.Navigation(c.UserContext(), int64(id))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(tree)
	}
}
