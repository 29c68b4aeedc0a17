package entity

import (
	"time"
)

// CourseLevel is the difficulty level of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Course represents a course listed on the marketplace. Price 0 means the
// course is free and enrollable without going through a payment gateway.
type Course struct {
	ID              string      `bson:"_id,omitempty" json:"id"`
	Title           string      `bson:"title" json:"title"`
	SubTitle        *string     `bson:"sub_title,omitempty" json:"sub_title,omitempty"`
	Description     *string     `bson:"description,omitempty" json:"description,omitempty"`
	Category        string      `bson:"category" json:"category"`
	Level           CourseLevel `bson:"level" json:"level"`
	Price           float64     `bson:"price" json:"price"`
	ThumbnailURL    *string     `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	CreatorID       string      `bson:"creator_id" json:"creator_id"`
	IsPublished     bool        `bson:"is_published" json:"is_published"`
	EnrollmentCount int64       `bson:"enrollment_count" json:"enrollment_count"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updated_at"`
}

// IsFree reports whether the course requires no payment.
func (c *Course) IsFree() bool {
	return c.Price <= 0
}

// Lecture is a single video lecture belonging to a course. Lectures are kept
// in their own collection and ordered by Position.
type Lecture struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	CourseID      string    `bson:"course_id" json:"course_id"`
	Title         string    `bson:"title" json:"title"`
	Description   *string   `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL      *string   `bson:"video_url,omitempty" json:"video_url,omitempty"`
	Duration      float64   `bson:"duration" json:"duration"`
	Position      int       `bson:"position" json:"position"`
	IsPreviewFree bool      `bson:"is_preview_free" json:"is_preview_free"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
