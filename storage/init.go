package storage

import (
	"ikigai/storage/database"
	"ikigai/storage/mq"
	"ikigai/storage/redis"
)

// Init brings up all storage backends in dependency order.
func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
