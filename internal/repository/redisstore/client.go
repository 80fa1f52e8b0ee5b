// Package redisstore keeps usage and rate state in Redis so several API
// instances share it. Every read-modify-write runs as one Lua script.
package redisstore

import (
	"github.com/redis/go-redis/v9"
)

func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}
