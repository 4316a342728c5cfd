package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix     = "post:%d"
	postListKey       = "posts:recent"
	tagRankKeyPrefix  = "tags:rank:%d"
	hospitalKeyPrefix = "hospital:%d"
	productKeyPrefix  = "product:%d"
)

const (
	PostTTL     = 30 * time.Minute
	PostListTTL = 1 * time.Minute
	TagRankTTL  = 5 * time.Minute
	ListingTTL  = 10 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func PostListKey() string {
	return postListKey
}

func TagRankKey(limit int) string {
	return fmt.Sprintf(tagRankKeyPrefix, limit)
}

func HospitalKey(id uint) string {
	return fmt.Sprintf(hospitalKeyPrefix, id)
}

func ProductKey(id uint) string {
	return fmt.Sprintf(productKeyPrefix, id)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), PostListKey())
}

// InvalidateTagRanks drops every cached rank board. Rank keys vary by limit so
// they are cleared by pattern.
func InvalidateTagRanks(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "tags:rank:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
