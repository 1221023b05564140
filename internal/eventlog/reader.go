package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coder/quartz"
)

type LogInfo struct {
	GameID     string    `json:"game_id"`
	Path       string    `json:"path"`
	EventCount int       `json:"event_count"`
	Modified   time.Time `json:"modified"`
}

// List returns logs in dir whose id starts with prefix, newest first.
func List(dir, prefix string) ([]LogInfo, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+logSuffix))
	if err != nil {
		return nil, err
	}
	out := make([]LogInfo, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), logSuffix)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		n, err := countLines(path)
		if err != nil {
			return nil, err
		}
		out = append(out, LogInfo{GameID: id, Path: path, EventCount: n, Modified: st.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Modified.After(out[j].Modified) })
	return out, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n, sc.Err()
}

// ValidID rejects ids that could escape the log directory.
func ValidID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func open(dir, id string) (*os.File, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrLogNotFound, id)
	}
	f, err := os.Open(LogPath(dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	return f, err
}

func Load(dir, id string) ([]Event, error) {
	f, err := open(dir, id)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("eventlog: %s line %d: %w", id, len(out)+1, err)
		}
		out = append(out, ev)
	}
	return out, sc.Err()
}

// Tail streams every event of a log from the start, then keeps polling for
// appended lines until ctx ends or fn returns an error. A trailing partial
// line is held until its newline arrives.
func Tail(ctx context.Context, dir, id string, clock quartz.Clock, poll time.Duration, fn func(Event) error) error {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if poll <= 0 {
		poll = 400 * time.Millisecond
	}
	f, err := open(dir, id)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var pending []byte
	ticker := clock.NewTicker(poll)
	defer ticker.Stop()
	for {
		for {
			chunk, err := r.ReadBytes('\n')
			pending = append(pending, chunk...)
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			line := bytes.TrimSpace(pending)
			pending = pending[:0]
			if len(line) == 0 {
				continue
			}
			var ev Event
			if err := json.Unmarshal(line, &ev); err != nil {
				continue
			}
			if err := fn(ev); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Replay feeds events to fn, waiting between them for their recorded gap
// divided by speed. speed <= 0 replays without waiting.
func Replay(ctx context.Context, events []Event, speed float64, clock quartz.Clock, fn func(Event) error) error {
	if clock == nil {
		clock = quartz.NewReal()
	}
	for i, ev := range events {
		if i > 0 && speed > 0 {
			gap := ev.Timestamp.Sub(events[i-1].Timestamp)
			if gap > 0 {
				timer := clock.NewTimer(time.Duration(float64(gap) / speed))
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}
