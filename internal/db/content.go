package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"party-relay/internal/game"
)

const (
	KindCategory = "category"
	KindFeud     = "feud"
	KindGridWord = "grid_word"
	KindBombTask = "bomb_task"
)

// ContentEntry is one row of a content pool. Detail carries the extra data
// of feud questions ("answer:points|...") and bomb tasks ("target=N" or
// "answer=TEXT").
type ContentEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_content_kind_text"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_content_kind_text"`
	Detail    string    `gorm:"size:1024;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ImportContentCSV reads kind,text,detail rows and upserts them into the
// content_entries table.
func ImportContentCSV(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	entries, err := ReadContentCSV(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, entry := range entries {
		record := entry
		if err := conn.Where(ContentEntry{Kind: record.Kind, Text: record.Text}).
			Assign(ContentEntry{Detail: record.Detail}).
			FirstOrCreate(&record).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func ReadContentCSV(path string) ([]ContentEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []ContentEntry
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		entry := ContentEntry{
			Kind: strings.ToLower(strings.TrimSpace(row[0])),
			Text: strings.TrimSpace(row[1]),
		}
		if len(row) >= 3 {
			entry.Detail = strings.TrimSpace(row[2])
		}
		if entry.Text == "" {
			continue
		}
		if _, err := BuildContent([]ContentEntry{entry}); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadContent reads every stored entry. Pools with no rows stay empty; the
// caller merges in the built-in pools.
func LoadContent(conn *gorm.DB) (game.Content, error) {
	if conn == nil {
		return game.Content{}, nil
	}
	var entries []ContentEntry
	if err := conn.Order("id").Find(&entries).Error; err != nil {
		return game.Content{}, err
	}
	return BuildContent(entries)
}

func BuildContent(entries []ContentEntry) (game.Content, error) {
	var content game.Content
	for _, entry := range entries {
		switch entry.Kind {
		case KindCategory:
			content.Categories = append(content.Categories, entry.Text)
		case KindGridWord:
			content.GridWords = append(content.GridWords, entry.Text)
		case KindFeud:
			answers, err := parseFeudAnswers(entry.Detail)
			if err != nil {
				return game.Content{}, fmt.Errorf("feud %q: %w", entry.Text, err)
			}
			content.FeudQuestions = append(content.FeudQuestions, game.FeudQuestion{Question: entry.Text, Answers: answers})
		case KindBombTask:
			task, err := parseBombTask(entry.Text, entry.Detail)
			if err != nil {
				return game.Content{}, fmt.Errorf("bomb task %q: %w", entry.Text, err)
			}
			content.BombTasks = append(content.BombTasks, task)
		default:
			return game.Content{}, fmt.Errorf("unknown content kind %q", entry.Kind)
		}
	}
	return content, nil
}

func parseFeudAnswers(detail string) ([]game.FeudAnswer, error) {
	var answers []game.FeudAnswer
	for _, part := range strings.Split(detail, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sep := strings.LastIndex(part, ":")
		if sep <= 0 {
			return nil, fmt.Errorf("answer %q needs text:points", part)
		}
		points, err := strconv.Atoi(strings.TrimSpace(part[sep+1:]))
		if err != nil || points < 0 {
			return nil, fmt.Errorf("answer %q has invalid points", part)
		}
		answers = append(answers, game.FeudAnswer{Text: strings.TrimSpace(part[:sep]), Points: points})
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers")
	}
	return answers, nil
}

func parseBombTask(text, detail string) (game.TaskTemplate, error) {
	key, value, ok := strings.Cut(detail, "=")
	if !ok {
		return game.TaskTemplate{}, fmt.Errorf("detail %q needs target=N or answer=TEXT", detail)
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "target":
		target, err := strconv.Atoi(value)
		if err != nil || target <= 0 {
			return game.TaskTemplate{}, fmt.Errorf("invalid target %q", value)
		}
		return game.TaskTemplate{Text: text, Target: target}, nil
	case "answer":
		if value == "" {
			return game.TaskTemplate{}, fmt.Errorf("empty answer")
		}
		return game.TaskTemplate{Text: text, Answer: value}, nil
	default:
		return game.TaskTemplate{}, fmt.Errorf("unknown task detail %q", key)
	}
}
