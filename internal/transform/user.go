package transform

import (
	"strconv"

	"sparkify/internal/model"
)

// ExtractUser projects an activity event into a users-dimension row.
//
// Events without a user id (sign-up and help pages, logged-out browsing)
// produce no row; that is expected input, not an error. A user id that is
// present but not numeric is likewise skipped, since the users table keys on
// an integer id. Extraction is idempotent; last-write-wins semantics for the
// level column live in the loader's conflict policy, not here.
func ExtractUser(ev ActivityEvent) (model.User, bool) {
	if ev.UserID == "" {
		return model.User{}, false
	}
	id, err := strconv.Atoi(ev.UserID)
	if err != nil {
		return model.User{}, false
	}

	return model.User{
		ID:        id,
		FirstName: ev.FirstName,
		LastName:  ev.LastName,
		Gender:    ev.Gender,
		Level:     ev.Level,
	}, true
}
