package admin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"VIP-Telegram-bot/internal/logger"
)

const backupDir = "backups"

// BackupDatabase делает дамп Postgres через pg_dump.
func BackupDatabase(filename, dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return exec.CommandContext(ctx, "pg_dump", dsn, "-Fc", "-f", filename).Run()
}

// cleanOldBackups удаляет дампы старше maxAge.
func cleanOldBackups(dir string, maxAge time.Duration) {
	files, err := filepath.Glob(filepath.Join(dir, "backup_*.dump"))
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(f)
		}
	}
}

// AutoBackupDatabase запускает суточный бэкап и чистку старых дампов.
// Ошибки уходят админу, падения процесса не допускаются.
func AutoBackupDatabase(dsn string) {
	os.MkdirAll(backupDir, 0o755)
	filename := filepath.Join(backupDir, "backup_"+time.Now().Format("20060102_150405")+".dump")
	if err := BackupDatabase(filename, dsn); err != nil {
		logger.NotifyAdmin("Database backup failed: " + err.Error())
		return
	}
	cleanOldBackups(backupDir, 31*24*time.Hour)
	logger.Info("database backup created", zap.String("file", filename))
}
