package handlers

import (
	"errors"

	"github.com/dzhou/taskboard/internal/access"
	"github.com/dzhou/taskboard/pkg/logger"
	"github.com/dzhou/taskboard/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to transport responses. Authorization
// denials deliberately collapse to a generic forbidden message so the
// specific reason (and with it, role structure) never leaves the engine;
// masked not-found outcomes stay not-found. Anything unrecognized is an
// infrastructure failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrNotFound):
		response.NotFound(c, "not found")
	case access.IsDenial(err):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, access.ErrCannotRemoveOwner):
		response.Conflict(c, err.Error())
	case errors.Is(err, access.ErrInvalidAssignee),
		errors.Is(err, access.ErrInvalidStatus),
		errors.Is(err, access.ErrInvalidPriority),
		errors.Is(err, access.ErrInvalidDueDate),
		errors.Is(err, access.ErrAlreadyMember),
		errors.Is(err, access.ErrNotAMember):
		response.BadRequest(c, err.Error())
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		response.ServerError(c, "internal server error")
	}
}
