package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter appends finished-game summaries to a plain text file so a
// history survives process restarts even though live state does not.
type Exporter struct {
	Path string
}

// WriteCycle appends one finished game cycle: header, roster, then the
// reveal lines recorded by the room.
func (e *Exporter) WriteCycle(r *Room) error {
	dir := filepath.Dir(e.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	file, err := os.OpenFile(e.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Room %d - finished %s\n", r.ID(), time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString("Players: ")
	sb.WriteString(nameList(r.Players()))
	sb.WriteString("\n\n")
	for _, line := range r.CycleLog() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
