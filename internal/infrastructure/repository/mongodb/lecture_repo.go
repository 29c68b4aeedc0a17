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

type LectureRepository struct {
	collection *mongo.Collection
}

var _ contract.ILectureRepository = (*LectureRepository)(nil)

func NewLectureRepository(db *mongo.Database) *LectureRepository {
	return &LectureRepository{
		collection: db.Collection("lectures"),
	}
}

func (r *LectureRepository) CreateLecture(ctx context.Context, lecture *entity.Lecture) error {
	_, err := r.collection.InsertOne(ctx, lecture)
	if err != nil {
		return fmt.Errorf("failed to create lecture: %w", err)
	}
	return nil
}

func (r *LectureRepository) GetLectureByID(ctx context.Context, id string) (*entity.Lecture, error) {
	var lecture entity.Lecture
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lecture)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrLectureNotFound
		}
		return nil, fmt.Errorf("failed to retrieve lecture: %w", err)
	}
	return &lecture, nil
}

func (r *LectureRepository) UpdateLecture(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update lecture: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrLectureNotFound
	}
	return nil
}

func (r *LectureRepository) DeleteLecture(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}
	if res.DeletedCount == 0 {
		return contract.ErrLectureNotFound
	}
	return nil
}

func (r *LectureRepository) ListByCourse(ctx context.Context, courseID string) ([]entity.Lecture, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lectures: %w", err)
	}
	defer cursor.Close(ctx)

	var lectures []entity.Lecture
	if err := cursor.All(ctx, &lectures); err != nil {
		return nil, fmt.Errorf("failed to decode lectures: %w", err)
	}
	return lectures, nil
}

func (r *LectureRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return fmt.Errorf("failed to delete course lectures: %w", err)
	}
	return nil
}
