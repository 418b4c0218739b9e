package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
)

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("id is not a positive integer")
	}
	return uint(id), nil
}

// httpError translates service-layer errors into HTTP responses and logs
// them at the right level. Unrecognized errors become opaque 500s.
func httpError(l *slog.Logger, event string, err error) error {
	var couponErr *service.CouponError
	switch {
	case errors.As(err, &couponErr):
		l.Warn(event, "status", 400, "reason", couponErr.Reason)
		return echo.NewHTTPError(http.StatusBadRequest, couponErr.Reason)
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		l.Warn(event, "status", 404, "reason", err.Error())
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", err.Error())
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", err.Error())
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func pageMeta(page, limit, offset int, total int64) map[string]any {
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}

// publishEvent fires a domain event without blocking the response. Delivery
// failures are logged and dropped.
func publishEvent(l *slog.Logger, producer *mykafka.Producer, topic, key string, event any) {
	if producer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
			l.Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
		}
	}()
}
