package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourseRepository struct {
	collection *mongo.Collection
}

var _ contract.ICourseRepository = (*CourseRepository)(nil)

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		collection: db.Collection("courses"),
	}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *entity.Course) error {
	_, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *CourseRepository) GetCourseByID(ctx context.Context, id string) (*entity.Course, error) {
	var course entity.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) UpdateCourse(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return contract.ErrCourseNotFound
	}
	return nil
}

// ListPublished returns published courses matching the filter plus the total
// match count for pagination.
func (r *CourseRepository) ListPublished(ctx context.Context, filter contract.CourseFilter) ([]entity.Course, int64, error) {
	query := bson.M{"is_published": true}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": primitive.Regex{Pattern: filter.Search, Options: "i"}}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 12
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []entity.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, total, nil
}

func (r *CourseRepository) ListByCreator(ctx context.Context, creatorID string) ([]entity.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"creator_id": creatorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []entity.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode creator courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) IncrementEnrollmentCount(ctx context.Context, id string, delta int64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"enrollment_count": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to increment enrollment count: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrCourseNotFound
	}
	return nil
}
