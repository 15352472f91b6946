package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirConfigs = "configs"
	dirStorage = "storage"
	dirDB      = "storage/db"
	dirLogs    = "logs"
)

var (
	configFilePath = filepath.Join(dirConfigs, "config.json")
	dbFilePath     = filepath.Join(dirDB, "polls.db")

	logFilePath = filepath.Join(dirLogs, "bot.log")
	errLogPath  = filepath.Join(dirLogs, "errors.log")
)

func initAppLayout() {
	dirs := []string{dirConfigs, dirStorage, dirDB, dirLogs}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("⚠️ Не удалось создать каталог %s: %v\n", dir, err)
		}
	}
}

func loadJSON(filename string, target interface{}) error {
	file, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(file, target)
}
