package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/plan"
	"github.com/platewise/backend/internal/service"
)

// ErrorHandler translates errors attached to the gin context into JSON
// responses, so handlers report domain failures with c.Error and leave
// status mapping in one place.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var budgetErr *plan.BudgetExceededError
		var genErr *service.GenerationFailedError

		switch {
		case errors.As(err, &budgetErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "weekly budget exceeded",
				"actual": budgetErr.Actual,
				"limit":  budgetErr.Limit,
			})
		case errors.As(err, &genErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": genErr.Error()})
		case errors.Is(err, service.ErrGenerationInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, plan.ErrEmptySlot),
			errors.Is(err, service.ErrItemNotFound),
			errors.Is(err, gorm.ErrRecordNotFound),
			errors.Is(err, redis.Nil):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, plan.ErrInvalidRescale):
			// an upstream invariant was broken, never a user condition
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}
