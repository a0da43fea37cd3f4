package config

import "strconv"

type StorageConfig interface {
	GetPersistenceDriver() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisNamespace() string
	GetSqlitePath() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetPersistenceDriver selects the repository adapters: memory, redis or
// sqlite.
func (Storage) GetPersistenceDriver() string {
	return GetEnv("PERSISTENCE_DRIVER", "memory")
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

func (Storage) GetRedisNamespace() string {
	return GetEnv("REDIS_NAMESPACE", "token-handler")
}

func (Storage) GetSqlitePath() string {
	return GetEnv("SQLITE_PATH", "./data/token-handler.db")
}
