package helpers

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer accumulates a nested trace of named phases so the CLI can print a
// breakdown of where time went. A nil *Timer is always safe to call methods
// on; every method is a no-op in that case, so timing can stay on the hot
// path without an extra "if enabled" check at every call site.
type Timer struct {
	data  []timerData
	mutex sync.Mutex
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

func (t *Timer) Fork() *Timer {
	if t != nil {
		return &Timer{}
	}
	return nil
}

func (t *Timer) Join(other *Timer) {
	if t != nil && other != nil {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		t.data = append(t.data, other.data...)
	}
}

// Lines renders the accumulated phases as indented "name: Nms" strings, one
// per top-level and nested Begin/End pair, in the order they were opened.
func (t *Timer) Lines() []string {
	if t == nil {
		return nil
	}

	type pair struct {
		timerData
		index int
	}

	var lines []string
	var stack []pair
	indent := 0

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(lines)})
			lines = append(lines, "")
			indent++
		} else {
			indent--
			last := len(stack) - 1
			top := stack[last]
			stack = stack[:last]
			if item.name != top.name {
				panic("helpers: mismatched Timer.Begin/End pair")
			}
			lines[top.index] = fmt.Sprintf("%s%s: %dms",
				strings.Repeat("  ", indent),
				top.name,
				item.time.Sub(top.time).Milliseconds())
		}
	}

	return lines
}
