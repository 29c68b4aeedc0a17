package entity

import (
	"time"
)

// Review is a student's rating and comment on a course. One review per
// (user, course) pair.
type Review struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	CourseID   string    `bson:"course_id" json:"course_id"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment" json:"comment"`
	ReviewedAt time.Time `bson:"reviewed_at" json:"reviewed_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
