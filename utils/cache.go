package utils

import (
	"log"
	"sync"
	"time"
)

// CacheEntry is one cached user row
type CacheEntry struct {
	User      *User
	ExpiresAt time.Time
}

// UserCache keeps recently seen users in memory so balance checks don't
// hit the database on every command.
type UserCache struct {
	data          map[int64]*CacheEntry
	mutex         sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	done          chan bool
}

// Global cache instance
var Cache *UserCache

// InitializeCache sets up the user cache
func InitializeCache(ttl time.Duration) {
	Cache = &UserCache{
		data: make(map[int64]*CacheEntry),
		ttl:  ttl,
		done: make(chan bool),
	}

	Cache.cleanupTicker = time.NewTicker(5 * time.Minute)
	go Cache.cleanupRoutine()
}

// CloseCache stops the cache cleanup routine
func CloseCache() {
	if Cache != nil && Cache.cleanupTicker != nil {
		Cache.cleanupTicker.Stop()
		Cache.done <- true
	}
}

// Get retrieves a user from cache
func (uc *UserCache) Get(userID int64) (*User, bool) {
	uc.mutex.RLock()
	entry, exists := uc.data[userID]
	uc.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		uc.mutex.Lock()
		delete(uc.data, userID)
		uc.mutex.Unlock()
		return nil, false
	}

	// Copy so callers can't mutate the cached row
	userCopy := *entry.User
	return &userCopy, true
}

// Set stores a user in cache
func (uc *UserCache) Set(userID int64, user *User) {
	userCopy := *user
	entry := &CacheEntry{
		User:      &userCopy,
		ExpiresAt: time.Now().Add(uc.ttl),
	}

	uc.mutex.Lock()
	uc.data[userID] = entry
	uc.mutex.Unlock()
}

// Delete removes a user from cache
func (uc *UserCache) Delete(userID int64) {
	uc.mutex.Lock()
	delete(uc.data, userID)
	uc.mutex.Unlock()
}

// Size returns the number of cached entries
func (uc *UserCache) Size() int {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()
	return len(uc.data)
}

// cleanupRoutine removes expired entries periodically
func (uc *UserCache) cleanupRoutine() {
	for {
		select {
		case <-uc.cleanupTicker.C:
			uc.cleanup()
		case <-uc.done:
			return
		}
	}
}

func (uc *UserCache) cleanup() {
	now := time.Now()

	uc.mutex.Lock()
	expired := 0
	for userID, entry := range uc.data {
		if now.After(entry.ExpiresAt) {
			delete(uc.data, userID)
			expired++
		}
	}
	uc.mutex.Unlock()

	if expired > 0 {
		log.Printf("Cleaned up %d expired cache entries. Cache size: %d", expired, uc.Size())
	}
}

// GetCachedUser retrieves user data from cache or database
func GetCachedUser(userID int64) (*User, error) {
	if Cache != nil {
		if user, found := Cache.Get(userID); found {
			return user, nil
		}
	}

	user, err := GetUser(userID)
	if err != nil {
		return nil, err
	}

	if Cache != nil {
		Cache.Set(userID, user)
	}
	return user, nil
}

// UpdateCachedUser updates user data in the database and refreshes the
// cache with the returned row
func UpdateCachedUser(userID int64, updates UserUpdateData) (*User, error) {
	user, err := UpdateUser(userID, updates)
	if err != nil {
		return nil, err
	}

	if Cache != nil {
		Cache.Set(userID, user)
	}
	return user, nil
}
