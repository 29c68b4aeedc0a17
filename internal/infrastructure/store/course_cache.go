package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

type CourseCacheStore struct {
	rdb       *redis.Client
	detailTTL time.Duration
	listTTL   time.Duration
}

var _ usecasecontract.ICourseCache = (*CourseCacheStore)(nil)

func NewCourseCacheStore(rdb *redis.Client) *CourseCacheStore {
	return &CourseCacheStore{
		rdb:       rdb,
		detailTTL: 60 * time.Minute,
		listTTL:   10 * time.Minute,
	}
}

func courseDetailKey(id string) string { return fmt.Sprintf("course:id:%s", id) }

func (c *CourseCacheStore) GetCourseByID(ctx context.Context, id string) (*entity.Course, bool, error) {
	b, err := c.rdb.Get(ctx, courseDetailKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var course entity.Course
	if err := json.Unmarshal(b, &course); err != nil {
		return nil, false, nil
	}
	return &course, true, nil
}

func (c *CourseCacheStore) SetCourseByID(ctx context.Context, id string, course *entity.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, courseDetailKey(id), data, c.detailTTL).Err()
}

func (c *CourseCacheStore) InvalidateCourseByID(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, courseDetailKey(id)).Err()
}

func (c *CourseCacheStore) GetCoursesPage(ctx context.Context, key string) (*usecasecontract.CachedCoursesPage, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var page usecasecontract.CachedCoursesPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, false, nil
	}
	return &page, true, nil
}

func (c *CourseCacheStore) SetCoursesPage(ctx context.Context, key string, page *usecasecontract.CachedCoursesPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.listTTL).Err()
}

// InvalidateCourseLists drops every cached catalog page. Pages are keyed by
// filter so a publish or edit invalidates them all.
func (c *CourseCacheStore) InvalidateCourseLists(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "courses:list:*", 1000).Iterator()
	pipe := c.rdb.Pipeline()
	n := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		n++
		if n%200 == 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, _ = pipe.Exec(ctx)
	return nil
}
