package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TokenRepository struct {
	collection *mongo.Collection
}

var _ contract.ITokenRepository = (*TokenRepository)(nil)

func NewTokenRepository(collection *mongo.Collection) *TokenRepository {
	return &TokenRepository{collection: collection}
}

func (r *TokenRepository) CreateToken(ctx context.Context, token *entity.Token) error {
	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (r *TokenRepository) GetTokenByHash(ctx context.Context, tokenHash string) (*entity.Token, error) {
	var token entity.Token
	filter := bson.M{"token_hash": tokenHash, "revoked": false}
	err := r.collection.FindOne(ctx, filter).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to retrieve token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepository) RevokeToken(ctx context.Context, id string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if res.MatchedCount == 0 {
		return contract.ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) RevokeAllTokensForUser(ctx context.Context, userID string, tokenType entity.TokenType) error {
	filter := bson.M{"user_id": userID, "token_type": tokenType, "revoked": false}
	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}
