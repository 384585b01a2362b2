package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// Parser reads activity exports. A file holds either one JSON array of
// events or one event per line (JSONL).
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cachedFile
}

type cachedFile struct {
	stamp  util.FileStamp
	events []model.ActivityEvent
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Events []model.ActivityEvent
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedFile),
	}
}

// ParseFile parses the export at path. Entries that are not valid event
// objects are skipped. Results are cached until the file changes on disk.
func (p *Parser) ParseFile(path string) ([]model.ActivityEvent, error) {
	stamp, err := util.StampFile(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to stat file: %s - %v", path, err))
		return nil, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && cached.stamp == stamp {
		p.mu.Unlock()
		return cached.events, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s (%s)", path, stamp))

	file, err := os.Open(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", path, err))
		return nil, err
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	first, err := firstNonSpace(reader)
	if err != nil && err != io.EOF {
		return nil, err
	}

	var events []model.ActivityEvent
	if first == '[' {
		events, err = parseArray(path, reader)
	} else {
		events, err = parseLines(path, reader)
	}
	if err != nil {
		util.LogDebug(fmt.Sprintf("Error parsing file: %s - %v", path, err))
		return nil, err
	}
	if events == nil {
		events = []model.ActivityEvent{}
	}

	p.mu.Lock()
	p.cache[path] = cachedFile{stamp: stamp, events: events}
	p.mu.Unlock()

	return events, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			events, err := p.ParseFile(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s - %v", f, err))
			}

			results <- ParseResult{
				File:   f,
				Events: events,
				Error:  err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}

// ParseAll parses every file and concatenates the events in argument order.
// The first error aborts the result.
func (p *Parser) ParseAll(files []string) ([]model.ActivityEvent, error) {
	byFile := make(map[string][]model.ActivityEvent, len(files))
	for result := range p.ParseFiles(files) {
		if result.Error != nil {
			return nil, fmt.Errorf("parse %s: %w", result.File, result.Error)
		}
		byFile[result.File] = result.Events
	}

	events := make([]model.ActivityEvent, 0)
	for _, f := range files {
		events = append(events, byFile[f]...)
	}
	return events, nil
}

// Invalidate drops the cached result for path.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

func firstNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, r.UnreadByte()
	}
}

func parseArray(path string, r io.Reader) ([]model.ActivityEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}

	events := make([]model.ActivityEvent, 0, len(raw))
	for i, item := range raw {
		event, ok := decodeEvent(item)
		if !ok {
			util.LogDebug(fmt.Sprintf("Skip invalid array entry %s[%d]", path, i))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func parseLines(path string, r io.Reader) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		event, ok := decodeEvent(line)
		if !ok {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d", path, lineCount))
			continue
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func decodeEvent(data []byte) (model.ActivityEvent, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.ActivityEvent{}, false
	}
	var event model.ActivityEvent
	if err := sonic.Unmarshal(trimmed, &event); err != nil {
		return model.ActivityEvent{}, false
	}
	return event, true
}
