package model

import "time"

// Review is a user's rating of a product.
type Review struct {
	ID        int64     `json:"review_id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	Author    *Author   `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Author identifies the user who wrote a review.
type Author struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// ReviewRequest represents the payload for creating a review.
type ReviewRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewUpdateRequest represents the payload for editing a review.
type ReviewUpdateRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ValidRating reports whether r is within the 1-5 star range.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
