package app

import (
	"log"
	"time"
)

func startHousekeeping() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		RotateLogsIfNeeded()
		monitorRuntime()
	}
}

var lastGoroutines int
var lastAliveLog time.Time

func monitorRuntime() {
	gor, alloc, _, sys := runtimeStats()
	if lastGoroutines > 0 && gor > lastGoroutines+300 {
		log.Printf("⚠️ Возможная утечка: goroutines выросли %d -> %d", lastGoroutines, gor)
	}
	if alloc > 300*1024*1024 {
		log.Printf("⚠️ Высокое потребление памяти: %s (sys %s)", formatBytes(alloc), formatBytes(sys))
	}
	if lastAliveLog.IsZero() || time.Since(lastAliveLog) > 6*time.Hour {
		log.Printf("💓 Watchdog: uptime %s, goroutines %d, mem %s", formatDuration(time.Since(appStartedAt)), gor, formatBytes(alloc))
		lastAliveLog = time.Now()
	}
	lastGoroutines = gor
}
