package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's runner payload
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// DraftKey returns the cache key for an authoring draft
func (r *CacheKeyStruct) DraftKey(draftID string) string {
	return fmt.Sprintf("draft:%s", draftID)
}

// QuizStatsChannel returns the Redis PubSub channel name for a quiz's statistics feed
func (r *CacheKeyStruct) QuizStatsChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:stats", quizID)
}

var CacheKey = NewCacheKeyStruct()
