package menu

import "errors"

// Domain errors for catalog and rating operations

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidUser   = errors.New("user identifier must not be empty")
	ErrInvalidItem   = errors.New("item identifier must be positive")

	ErrItemNotFound = errors.New("menu item not found")
	ErrUserNotFound = errors.New("user not found")
)
