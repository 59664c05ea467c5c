package stats

import (
	"sort"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// frequencyTable counts words and remembers the order they were first seen.
type frequencyTable struct {
	counts map[string]int
	order  []string
}

func newFrequencyTable() *frequencyTable {
	return &frequencyTable{counts: map[string]int{}}
}

func (t *frequencyTable) add(word string) {
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word]++
}

// top returns the n most frequent words, descending by count. Ties keep
// first-encountered order.
func (t *frequencyTable) top(n int) []model.WordCount {
	if n <= 0 || len(t.order) == 0 {
		return nil
	}
	items := make([]model.WordCount, len(t.order))
	for i, w := range t.order {
		items[i] = model.WordCount{Word: w, Count: t.counts[w]}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n:n]
}
