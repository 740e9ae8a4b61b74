package game

import (
	"math/rand"
	"sync"
)

// IDPool issues short numeric room identifiers from a bounded range.
// The range is shuffled once at construction so allocation order is
// unpredictable; ids are unique only among concurrently live rooms and
// return to the pool on Release.
type IDPool struct {
	mu        sync.Mutex
	available []int
	inUse     map[int]bool
}

func NewIDPool(min, max int) *IDPool {
	if max < min {
		min, max = max, min
	}
	ids := make([]int, 0, max-min+1)
	for id := min; id <= max; id++ {
		ids = append(ids, id)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return &IDPool{available: ids, inUse: make(map[int]bool)}
}

func (p *IDPool) Allocate() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available) == 0 {
		return 0, ErrPoolExhausted
	}
	id := p.available[len(p.available)-1]
	p.available = p.available[:len(p.available)-1]
	p.inUse[id] = true
	return id, nil
}

func (p *IDPool) Release(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inUse[id] {
		return
	}
	delete(p.inUse, id)
	p.available = append(p.available, id)
}

// ReleaseAll reclaims every outstanding identifier. Administrative
// reset only.
func (p *IDPool) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.inUse {
		p.available = append(p.available, id)
		delete(p.inUse, id)
	}
}

func (p *IDPool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inUse)
}
