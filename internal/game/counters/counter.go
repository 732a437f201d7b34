package counters

import "sort"

// Counter represents a named counter on a permanent or player.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a new counter with the given name and count.
func NewCounter(name string, count int) *Counter {
	if count <= 0 {
		count = 1
	}
	return &Counter{
		Name:  name,
		Count: count,
	}
}

// Add adds the specified amount to the counter.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Remove removes the specified amount from the counter.
// Will not allow count to go below 0.
func (c *Counter) Remove(amount int) {
	if amount > 0 {
		if c.Count >= amount {
			c.Count -= amount
		} else {
			c.Count = 0
		}
	}
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}

// Counters manages a collection of counters keyed by name.
type Counters struct {
	Counters map[string]*Counter
}

// NewCounters creates a new Counters collection.
func NewCounters() *Counters {
	return &Counters{
		Counters: make(map[string]*Counter),
	}
}

// Add adds amount counters of the given name to the collection.
func (cs *Counters) Add(name string, amount int) {
	if amount <= 0 {
		return
	}
	if existing, ok := cs.Counters[name]; ok {
		existing.Add(amount)
	} else {
		cs.Counters[name] = NewCounter(name, amount)
	}
}

// Remove removes up to amount counters of the given name. The entry is
// deleted once its count reaches zero. Returns true if any counters
// were present.
func (cs *Counters) Remove(name string, amount int) bool {
	if amount <= 0 {
		return false
	}
	counter, ok := cs.Counters[name]
	if !ok {
		return false
	}
	counter.Remove(amount)
	if counter.Count == 0 {
		delete(cs.Counters, name)
	}
	return true
}

// RemoveAll removes every counter of the given name.
func (cs *Counters) RemoveAll(name string) {
	delete(cs.Counters, name)
}

// Count returns the count of counters with the given name.
func (cs *Counters) Count(name string) int {
	if counter, ok := cs.Counters[name]; ok {
		return counter.Count
	}
	return 0
}

// Has returns true if there are any counters with the given name.
func (cs *Counters) Has(name string) bool {
	return cs.Count(name) > 0
}

// Total returns the total number of all counters.
func (cs *Counters) Total() int {
	total := 0
	for _, counter := range cs.Counters {
		total += counter.Count
	}
	return total
}

// Copy creates a deep copy of the collection.
func (cs *Counters) Copy() *Counters {
	out := NewCounters()
	for name, counter := range cs.Counters {
		out.Counters[name] = counter.Copy()
	}
	return out
}

// View represents a counter in render-friendly form.
type View struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ToView returns the counters sorted by name for stable rendering.
func (cs *Counters) ToView() []View {
	views := make([]View, 0, len(cs.Counters))
	for name, counter := range cs.Counters {
		views = append(views, View{Name: name, Count: counter.Count})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}
