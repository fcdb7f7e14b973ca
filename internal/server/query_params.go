package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	insightsdomain "github.com/storelens/storelens/internal/insights/domain"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, newValidationError("window", "invalid_time", "time must be RFC3339 or YYYY-MM-DD")
}

// parseWindow resolves start/end query params. When both are absent the
// window defaults to the configured trailing span ending today.
func (s *Server) parseWindow(c *gin.Context) (insightsdomain.Window, error) {
	start, err := parseOptionalTime(c.Query("start"), false)
	if err != nil {
		return insightsdomain.Window{}, err
	}
	end, err := parseOptionalTime(c.Query("end"), true)
	if err != nil {
		return insightsdomain.Window{}, err
	}

	if start == nil && end == nil {
		now := s.clock.Now()
		days := s.analysis.Get().DefaultWindowDays
		derivedEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		derivedStart := derivedEnd.AddDate(0, 0, -(days - 1))
		derivedStart = time.Date(derivedStart.Year(), derivedStart.Month(), derivedStart.Day(), 0, 0, 0, 0, time.UTC)
		return insightsdomain.Window{Start: derivedStart, End: derivedEnd}, nil
	}
	if start == nil || end == nil {
		return insightsdomain.Window{}, newValidationError("window", "incomplete_window", "start and end must be supplied together")
	}

	window := insightsdomain.Window{Start: *start, End: *end}
	if !window.Valid() {
		return insightsdomain.Window{}, insightsdomain.ErrInvalidWindow
	}
	return window, nil
}

func parseCompare(c *gin.Context) (bool, error) {
	compare, err := parseOptionalBool(c.Query("compare"))
	if err != nil {
		return false, newValidationError("compare", "invalid_bool", "compare must be true or false")
	}
	return compare != nil && *compare, nil
}

func parseGranularity(c *gin.Context) (insightsdomain.Granularity, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query("granularity")))
	switch raw {
	case "":
		return insightsdomain.GranularityMonth, nil
	case string(insightsdomain.GranularityDay):
		return insightsdomain.GranularityDay, nil
	case string(insightsdomain.GranularityMonth):
		return insightsdomain.GranularityMonth, nil
	default:
		return "", newValidationError("granularity", "invalid_granularity", "granularity must be day or month")
	}
}

func parseYear(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, newValidationError(name, "missing_year", name+" is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, newValidationError(name, "invalid_year", name+" must be a four-digit year")
	}
	return year, nil
}
