package main

import (
	"errors"
	"hostelcare/portal/internal/models"
	"sort"
	"strings"
)

// describe turns an error into the notice shown to the user.
func (a *app) describe(err error) string {
	var (
		fe  *models.FetchError
		rej *models.ServerRejection
		mal *models.MalformedResponseError
		ve  models.ValidationError
	)

	switch {
	case errors.As(err, &ve):
		if _, ok := ve["id"]; ok && len(ve) == 1 {
			return a.msg("invalid_complaint")
		}
		fields := make([]string, 0, len(ve))
		for f := range ve {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			lines = append(lines, f+": "+ve[f])
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &rej):
		return rej.Message
	case errors.As(err, &fe) && fe.Unauthorized():
		return a.msg("session_expired")
	case errors.As(err, &mal):
		return a.msg("invalid_format")
	case errors.As(err, &fe):
		return a.msg("fetch_failed")
	case errors.Is(err, models.ErrLocked):
		return a.msg("locked")
	case errors.Is(err, models.ErrInvalidState):
		return a.msg("feedback_not_allowed")
	case errors.Is(err, models.ErrNotFound):
		return a.msg("not_found")
	case errors.Is(err, models.ErrBusy):
		return a.msg("busy")
	}
	return err.Error()
}

func (a *app) msg(key string, args ...any) string {
	if len(args) == 0 {
		return a.loc.GetString("en", key)
	}
	return a.loc.Format("en", key, args...)
}
