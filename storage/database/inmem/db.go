package inmemdb

import (
	"sync"

	"github.com/tmukandila/ratiba/core/user"
)

// DB is a map-backed store for tests and local hacking.
type DB struct {
	user *userTable
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*user.User
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
}
