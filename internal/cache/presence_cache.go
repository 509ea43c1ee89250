package cache

import (
	"fmt"
	"strconv"
	"time"
)

// OnlineUsersTTL matches the hub's pong timeout so stale entries expire
// with dead connections.
const OnlineUsersTTL = 90 * time.Second

// PresenceCache mirrors who currently holds a realtime connection.
type PresenceCache struct {
	redis *RedisCache
}

// NewPresenceCache creates a new presence cache
func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

// SetUserOnline adds a user to the online users set
func (pc *PresenceCache) SetUserOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	userKey := fmt.Sprintf("online:%d", userID)
	return pc.redis.Set(userKey, []byte("1"), OnlineUsersTTL)
}

// SetUserOffline removes a user from the online users set
func (pc *PresenceCache) SetUserOffline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	userKey := fmt.Sprintf("online:%d", userID)
	return pc.redis.Delete(userKey)
}

// RefreshUserOnline extends the TTL while the connection stays healthy.
// Called from the heartbeat path.
func (pc *PresenceCache) RefreshUserOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	userKey := fmt.Sprintf("online:%d", userID)
	return pc.redis.Set(userKey, []byte("1"), OnlineUsersTTL)
}

// IsUserOnline checks if a user is online
func (pc *PresenceCache) IsUserOnline(userID uint) bool {
	if pc == nil || pc.redis == nil {
		return false
	}
	return pc.redis.Exists(fmt.Sprintf("online:%d", userID))
}

// GetOnlineUsers returns all online user IDs
func (pc *PresenceCache) GetOnlineUsers() ([]uint, error) {
	if pc == nil || pc.redis == nil {
		return nil, nil
	}
	members, err := pc.redis.SetMembers("online:users")
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		if id, err := strconv.ParseUint(member, 10, 32); err == nil {
			userIDs = append(userIDs, uint(id))
		}
	}
	return userIDs, nil
}
