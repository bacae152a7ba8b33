package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%s"
	PublicationKeyPrefix = "publication:%s"
	FeedKey              = "publications:feed"
	UserFeedKeyPrefix    = "publications:user:%s"
	AnimalKeyPrefix      = "animal:%s"
)

const (
	UserTTL        = 5 * time.Minute
	PublicationTTL = 10 * time.Minute
	FeedTTL        = 30 * time.Second
	AnimalTTL      = 10 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PublicationKey(publicationID string) string {
	return fmt.Sprintf(PublicationKeyPrefix, publicationID)
}

func UserFeedKey(authorID string) string {
	return fmt.Sprintf(UserFeedKeyPrefix, authorID)
}

func AnimalKey(animalID string) string {
	return fmt.Sprintf(AnimalKeyPrefix, animalID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePublication drops the cached publication together with the feeds
// that embed it.
func InvalidatePublication(ctx context.Context, publicationID, authorID string) {
	Invalidate(ctx, PublicationKey(publicationID))
	Invalidate(ctx, FeedKey)
	if authorID != "" {
		Invalidate(ctx, UserFeedKey(authorID))
	}
}

func InvalidateAnimal(ctx context.Context, animalID string) {
	Invalidate(ctx, AnimalKey(animalID))
}
