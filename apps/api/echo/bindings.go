package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/brightpath/academia/core/board"
)

// claimsAudience maps the caller's portal role to the audience scope used
// by announcements and calendar events. Admins see everything.
func claimsAudience(ctx echo.Context) string {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return board.AudienceAll
	}
	switch {
	case claims.IsAdmin:
		return "" // unfiltered
	case claims.IsTeacher:
		return board.AudienceFaculty
	case claims.IsStudent:
		return board.AudienceStudents
	}
	return board.AudienceAll
}
