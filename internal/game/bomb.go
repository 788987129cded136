package game

import (
	"math/rand/v2"
	"strings"
)

const bombDefaultSeconds = 60

type BombTask struct {
	ID        int     `json:"id"`
	Text      string  `json:"text"`
	Count     *int    `json:"count,omitempty"`
	Target    *int    `json:"target,omitempty"`
	Completed bool    `json:"completed"`
	Answer    *string `json:"answer,omitempty"`
}

func (t BombTask) isCounter() bool {
	return t.Target != nil
}

type BombData struct {
	Timer      int        `json:"timer"`
	Tasks      []BombTask `json:"tasks"`
	IsDefused  bool       `json:"isDefused"`
	IsExploded bool       `json:"isExploded"`
}

func (d *BombData) GameType() GameType { return GameCooperativeTimer }

func (d *BombData) cloneData() TeamData {
	out := *d
	out.Tasks = make([]BombTask, len(d.Tasks))
	for i, task := range d.Tasks {
		if task.Count != nil {
			count := *task.Count
			task.Count = &count
		}
		if task.Target != nil {
			target := *task.Target
			task.Target = &target
		}
		task.Answer = cloneString(task.Answer)
		out.Tasks[i] = task
	}
	return &out
}

func newBombData(content Content, rng *rand.Rand, seconds int) (*BombData, error) {
	if len(content.BombTasks) < bombTaskCount {
		return nil, ErrContentTooSmall
	}
	if seconds <= 0 {
		seconds = bombDefaultSeconds
	}
	pool := append([]TaskTemplate(nil), content.BombTasks...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	tasks := make([]BombTask, 0, bombTaskCount)
	for i, tmpl := range pool[:bombTaskCount] {
		task := BombTask{ID: i + 1, Text: tmpl.Text}
		if tmpl.Target > 0 {
			target := tmpl.Target
			count := 0
			task.Target = &target
			task.Count = &count
		} else {
			task.Answer = stringPtr(tmpl.Answer)
		}
		tasks = append(tasks, task)
	}
	return &BombData{Timer: seconds, Tasks: tasks}, nil
}

func (d *BombData) tick() bool {
	d.Timer--
	if d.Timer <= 0 {
		d.Timer = 0
		d.IsExploded = true
		return true
	}
	return false
}

func (d *BombData) allCompleted() bool {
	for _, task := range d.Tasks {
		if !task.Completed {
			return false
		}
	}
	return true
}

func (r *TeamRoom) applyBomb(action string, payload ActionPayload) error {
	if action != "task_progress" {
		return ErrUnknownAction
	}
	data, ok := r.Data.(*BombData)
	if !ok || r.Status != TeamStatusPlaying {
		return ErrInvalidStatus
	}
	var task *BombTask
	for i := range data.Tasks {
		if data.Tasks[i].ID == payload.TaskID {
			task = &data.Tasks[i]
			break
		}
	}
	if task == nil {
		return ErrTaskNotFound
	}
	if task.Completed {
		return ErrTaskCompleted
	}
	if task.isCounter() {
		*task.Count++
		if *task.Count >= *task.Target {
			task.Completed = true
		}
	} else {
		if payload.Answer == nil || task.Answer == nil || strings.TrimSpace(*payload.Answer) != *task.Answer {
			return ErrWrongAnswer
		}
		task.Completed = true
	}
	if data.allCompleted() {
		data.IsDefused = true
		r.Status = TeamStatusResults
	}
	return nil
}
