package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	gridBoardSize  = 25
	bombTaskCount  = 3
	gridGoldCells  = 9
	gridBlackCells = 8
)

type FeudAnswer struct {
	Text   string
	Points int
}

type FeudQuestion struct {
	Question string
	Answers  []FeudAnswer
}

// TaskTemplate is a counter task when Target > 0, otherwise an answer task.
type TaskTemplate struct {
	Text   string
	Target int
	Answer string
}

// Content holds the fixed pools the games draw from.
type Content struct {
	Categories    []string
	FeudQuestions []FeudQuestion
	GridWords     []string
	BombTasks     []TaskTemplate
}

func (c Content) Validate() error {
	if len(c.FeudQuestions) == 0 {
		return fmt.Errorf("feud questions: %w", ErrContentTooSmall)
	}
	for _, question := range c.FeudQuestions {
		if len(question.Answers) == 0 {
			return fmt.Errorf("feud question %q has no answers: %w", question.Question, ErrContentTooSmall)
		}
	}
	if len(distinctWords(c.GridWords)) < gridBoardSize {
		return fmt.Errorf("grid words need %d distinct entries: %w", gridBoardSize, ErrContentTooSmall)
	}
	if len(c.BombTasks) < bombTaskCount {
		return fmt.Errorf("bomb tasks need %d entries: %w", bombTaskCount, ErrContentTooSmall)
	}
	return nil
}

// Merge returns c with every empty pool replaced by the one from fallback.
func (c Content) Merge(fallback Content) Content {
	if len(c.Categories) == 0 {
		c.Categories = fallback.Categories
	}
	if len(c.FeudQuestions) == 0 {
		c.FeudQuestions = fallback.FeudQuestions
	}
	if len(c.GridWords) == 0 {
		c.GridWords = fallback.GridWords
	}
	if len(c.BombTasks) == 0 {
		c.BombTasks = fallback.BombTasks
	}
	return c
}

// SampleCategories picks up to n categories without repeats.
func (c Content) SampleCategories(rng *rand.Rand, n int) []string {
	pool := append([]string(nil), c.Categories...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

func distinctWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

func DefaultContent() Content {
	return Content{
		Categories: []string{
			"Fruits", "Countries", "Car brands", "Football players", "Animated films",
			"Capital cities", "Animals", "Vegetables", "Colours", "Sports",
			"Phone apps", "Gadgets", "Jobs", "Kitchen tools", "Clothing brands",
		},
		FeudQuestions: []FeudQuestion{
			{Question: "Things you do right after waking up", Answers: []FeudAnswer{
				{"wash face", 35}, {"drink coffee", 25}, {"check phone", 20}, {"stretch", 15}, {"shower", 5},
			}},
			{Question: "Things you find in a kitchen", Answers: []FeudAnswer{
				{"knife", 30}, {"fridge", 25}, {"oven", 20}, {"plate", 15}, {"spoon", 10},
			}},
			{Question: "Things you do before going to sleep", Answers: []FeudAnswer{
				{"brush teeth", 30}, {"set alarm", 25}, {"read", 20}, {"drink water", 15}, {"scroll phone", 10},
			}},
			{Question: "Animals that live in the desert", Answers: []FeudAnswer{
				{"camel", 35}, {"fox", 28}, {"scorpion", 22}, {"snake", 15},
			}},
			{Question: "Famous car brands", Answers: []FeudAnswer{
				{"toyota", 30}, {"hyundai", 25}, {"ford", 20}, {"mercedes", 15}, {"bmw", 10},
			}},
			{Question: "Things you pack in a suitcase", Answers: []FeudAnswer{
				{"clothes", 40}, {"charger", 20}, {"perfume", 15}, {"passport", 15}, {"toothbrush", 10},
			}},
			{Question: "Popular hobbies", Answers: []FeudAnswer{
				{"reading", 30}, {"sports", 25}, {"drawing", 20}, {"cooking", 15}, {"travel", 10},
			}},
			{Question: "Things you buy at a pharmacy", Answers: []FeudAnswer{
				{"painkillers", 35}, {"masks", 20}, {"shampoo", 15}, {"vitamins", 15}, {"toothpaste", 15},
			}},
			{Question: "Summer fruits", Answers: []FeudAnswer{
				{"watermelon", 40}, {"mango", 25}, {"grapes", 15}, {"figs", 10}, {"peach", 10},
			}},
		},
		GridWords: []string{
			"apple", "car", "house", "sea", "sun", "moon", "book", "pen", "desk", "chair",
			"window", "door", "plane", "train", "bike", "phone", "computer", "watch", "glasses", "bag",
			"shoe", "shirt", "trousers", "hat", "scarf", "lion", "tiger", "elephant", "giraffe", "monkey",
			"dog", "cat", "bird", "fish", "rose", "tree", "mountain", "river", "desert", "snow",
			"fire", "water", "bread", "milk", "coffee", "tea", "sugar", "salt", "pepper", "lemon",
		},
		BombTasks: []TaskTemplate{
			{Text: "Type 'defuse' 5 times", Target: 5},
			{Text: "Solve: 15 + 27", Answer: "42"},
			{Text: "Type 'boom' 3 times", Target: 3},
			{Text: "Solve: 12 * 4", Answer: "48"},
			{Text: "Type 'faster' 4 times", Target: 4},
			{Text: "Solve: 100 - 37", Answer: "63"},
		},
	}
}
