package petcycle

import (
	"fmt"
	"time"

	"petkeeper/internal/domain/petting"
)

// cycleLog collects the worker-log lines of one cycle. The batch is flushed
// to the record store on every terminal branch.
type cycleLog struct {
	now     func() time.Time
	entries []petting.WorkerLogEntry
}

func (l *cycleLog) add(level petting.LogLevel, format string, args ...any) {
	l.entries = append(l.entries, petting.WorkerLogEntry{
		Timestamp: l.now().UnixMilli(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (l *cycleLog) infof(format string, args ...any)  { l.add(petting.LogLevelInfo, format, args...) }
func (l *cycleLog) warnf(format string, args ...any)  { l.add(petting.LogLevelWarn, format, args...) }
func (l *cycleLog) errorf(format string, args ...any) { l.add(petting.LogLevelError, format, args...) }
