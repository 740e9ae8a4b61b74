package prompt

import (
	"errors"
	"math/rand"
	"sync"

	"drawfulbot/internal/text"
)

var ErrNoPrompts = errors.New("prompt source is empty")

// Pool hands out drawing prompts to rooms. The working queue is built
// once from a Source: lines are normalized, empties dropped, duplicates
// collapsed and the rest shuffled. Next cycles the queue head to the
// tail so a prompt repeats only after the whole set has been used.
type Pool struct {
	mu    sync.Mutex
	queue []string
}

func NewPool(src Source) (*Pool, error) {
	lines, err := src.Lines()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(lines))
	queue := make([]string, 0, len(lines))
	for _, l := range lines {
		n := text.Normalize(l)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		queue = append(queue, n)
	}
	if len(queue) == 0 {
		return nil, ErrNoPrompts
	}
	rand.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return &Pool{queue: queue}, nil
}

func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next()
}

// NextDistinct returns n prompts with no duplicates among them, as long
// as the pool holds at least n distinct texts. Smaller pools start
// repeating once every text has been used.
func (p *Pool) NextDistinct(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, n)
	used := make(map[string]bool, n)
	for len(out) < n {
		attempts := 0
		t := p.next()
		for used[t] && attempts < len(p.queue) {
			t = p.next()
			attempts++
		}
		used[t] = true
		out = append(out, t)
	}
	return out
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) next() string {
	t := p.queue[0]
	p.queue = append(p.queue[1:], t)
	return t
}
