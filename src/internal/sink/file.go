// FILE: logflume/src/internal/sink/file.go
package sink

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"logflume/src/internal/config"
	"logflume/src/internal/core"
	"logflume/src/internal/format"

	"github.com/lixenwraith/log"
)

// FileSink appends formatted entries to a file and rotates it by size.
// Rotated files are named <filename>.1 (most recent) through <filename>.N-1
// (oldest retained). The accumulated size of the active file is tracked in
// memory and advanced by bytes actually written; it is not re-derived from
// the filesystem on every write.
type FileSink struct {
	name      string
	level     core.Level
	filename  string
	maxSize   int64
	maxFiles  int
	formatter format.Formatter
	logger    *log.Logger

	mu   sync.Mutex
	file *os.File
	size int64

	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	totalRotations atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewFileSink creates a new file sink and opens the active file.
func NewFileSink(name string, level core.Level, opts *config.FileSinkOptions, logger *log.Logger) (*FileSink, error) {
	if opts == nil || opts.Filename == "" {
		return nil, fmt.Errorf("file sink requires a filename")
	}

	var formatter format.Formatter
	if opts.JSON {
		formatter = format.NewJSONFormatter(format.Options{}, logger)
	} else {
		formatter = format.NewTextFormatter(format.Options{}, logger)
	}

	if name == "" {
		name = "file"
	}

	fs := &FileSink{
		name:      name,
		level:     level,
		filename:  opts.Filename,
		maxSize:   opts.MaxSizeBytes,
		maxFiles:  opts.MaxFiles,
		formatter: formatter,
		logger:    logger,
		startTime: time.Now(),
	}
	fs.lastProcessed.Store(time.Time{})

	if err := fs.open(); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return fs, nil
}

func (fs *FileSink) open() error {
	f, err := os.OpenFile(fs.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	fs.file = f
	fs.size = info.Size()
	return nil
}

func (fs *FileSink) Name() string {
	return fs.name
}

func (fs *FileSink) Level() core.Level {
	return fs.level
}

// Deliver appends the formatted entry, rotating first when the write would
// push the active file past the size threshold. The new entry always lands
// in the freshly rotated, empty active file.
func (fs *FileSink) Deliver(entry *core.Entry) error {
	formatted, err := fs.formatter.Format(entry)
	if err != nil {
		fs.totalFailed.Add(1)
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.maxSize > 0 && fs.size+int64(len(formatted)) > fs.maxSize {
		if err := fs.rotate(); err != nil {
			fs.totalFailed.Add(1)
			return fmt.Errorf("rotation failed: %w", err)
		}
		fs.totalRotations.Add(1)
	}

	n, err := fs.file.Write(formatted)
	// Count what actually reached the file so a partial write cannot
	// inflate the counter and trigger spurious rotations
	fs.size += int64(n)
	if err != nil {
		fs.totalFailed.Add(1)
		return fmt.Errorf("append failed: %w", err)
	}

	fs.totalProcessed.Add(1)
	fs.lastProcessed.Store(time.Now())
	return nil
}

// rotate shifts <filename>.i to <filename>.(i+1), deletes the oldest, moves
// the active file to <filename>.1 and reopens an empty active file. When the
// shift fails the active file is reopened in place so later appends still
// have a live handle.
// Caller holds fs.mu.
func (fs *FileSink) rotate() error {
	if err := fs.file.Close(); err != nil {
		fs.logger.Warn("msg", "Failed to close active file before rotation",
			"component", "file_sink",
			"error", err)
	}

	if err := fs.shift(); err != nil {
		if openErr := fs.open(); openErr != nil {
			fs.logger.Error("msg", "Failed to reopen active file after rotation error",
				"component", "file_sink",
				"error", openErr)
		}
		return err
	}

	return fs.open()
}

// shift performs the archive renames and the oldest-file deletion.
func (fs *FileSink) shift() error {
	for i := fs.maxFiles - 1; i >= 1; i-- {
		rotated := fmt.Sprintf("%s.%d", fs.filename, i)
		if _, err := os.Stat(rotated); err != nil {
			continue
		}
		if i == fs.maxFiles-1 {
			if err := os.Remove(rotated); err != nil {
				return fmt.Errorf("failed to delete %s: %w", rotated, err)
			}
			continue
		}
		next := fmt.Sprintf("%s.%d", fs.filename, i+1)
		if err := os.Rename(rotated, next); err != nil {
			return fmt.Errorf("failed to rename %s: %w", rotated, err)
		}
	}

	if _, err := os.Stat(fs.filename); err == nil {
		if fs.maxFiles > 1 {
			if err := os.Rename(fs.filename, fs.filename+".1"); err != nil {
				return fmt.Errorf("failed to archive active file: %w", err)
			}
		} else {
			// No retention configured, the active file is simply dropped
			if err := os.Remove(fs.filename); err != nil {
				return fmt.Errorf("failed to remove active file: %w", err)
			}
		}
	}

	return nil
}

// Close flushes and releases the active file.
func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return err
}

func (fs *FileSink) GetStats() SinkStats {
	lastProc, _ := fs.lastProcessed.Load().(time.Time)

	fs.mu.Lock()
	size := fs.size
	fs.mu.Unlock()

	return SinkStats{
		Type:           "file",
		TotalProcessed: fs.totalProcessed.Load(),
		TotalFailed:    fs.totalFailed.Load(),
		StartTime:      fs.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"filename":        fs.filename,
			"active_size":     size,
			"total_rotations": fs.totalRotations.Load(),
		},
	}
}
