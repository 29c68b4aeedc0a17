package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EnrollmentRepository struct {
	collection *mongo.Collection
}

var _ contract.IEnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{
		collection: db.Collection("enrollments"),
	}
}

// EnsureIndexes creates the unique compound index that makes enrollment
// creation race-free: two concurrent upserts for the same (user, course)
// pair cannot both insert.
func (r *EnrollmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create enrollment index: %w", err)
	}
	return nil
}

// UpsertEnrollment atomically creates the enrollment if none exists for its
// (user, course) pair. All fields are applied with $setOnInsert so a
// concurrent duplicate write leaves the stored document untouched.
func (r *EnrollmentRepository) UpsertEnrollment(ctx context.Context, enrollment *entity.Enrollment) (bool, *entity.Enrollment, error) {
	filter := bson.M{
		"user_id":   enrollment.UserID,
		"course_id": enrollment.CourseID,
	}

	now := time.Now()
	setOnInsert := bson.M{
		"_id":                enrollment.ID,
		"user_id":            enrollment.UserID,
		"course_id":          enrollment.CourseID,
		"enrollment_type":    enrollment.EnrollmentType,
		"status":             enrollment.Status,
		"progress":           enrollment.Progress,
		"completed_lectures": []string{},
		"created_at":         now,
		"updated_at":         now,
	}
	if enrollment.PaymentID != nil {
		setOnInsert["payment_id"] = *enrollment.PaymentID
	}
	if enrollment.ExpiresAt != nil {
		setOnInsert["expires_at"] = *enrollment.ExpiresAt
	}

	opts := options.Update().SetUpsert(true)
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$setOnInsert": setOnInsert}, opts)
	if err != nil {
		return false, nil, fmt.Errorf("failed to upsert enrollment: %w", err)
	}

	if res.UpsertedID != nil {
		enrollment.CreatedAt = now
		enrollment.UpdatedAt = now
		return true, enrollment, nil
	}

	existing, err := r.GetByUserAndCourse(ctx, enrollment.UserID, enrollment.CourseID)
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	var enrollment entity.Enrollment
	filter := bson.M{"user_id": userID, "course_id": courseID}
	err := r.collection.FindOne(ctx, filter).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ListActiveByUser(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": []entity.EnrollmentStatus{entity.EnrollmentStatusActive, entity.EnrollmentStatusCompleted}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var enrollments []entity.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("failed to decode enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) UpdateEnrollment(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrEnrollmentNotFound
	}
	return nil
}

// AddCompletedLecture appends the lecture with $addToSet so repeated calls
// never duplicate an entry.
func (r *EnrollmentRepository) AddCompletedLecture(ctx context.Context, id, lectureID string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"completed_lectures": lectureID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to record completed lecture: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrEnrollmentNotFound
	}
	return nil
}

// CountByCourseIDs aggregates enrollment totals per course.
func (r *EnrollmentRepository) CountByCourseIDs(ctx context.Context, courseIDs []string) ([]contract.CourseEnrollmentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course_id": bson.M{"$in": courseIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$course_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate enrollment counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []contract.CourseEnrollmentCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode enrollment counts: %w", err)
	}
	return counts, nil
}
