package rules

import (
	"errors"
	"strings"
)

// PhraseMatcher finds any of a fixed set of literal phrases in one pass.
// Phrases and inputs are lowercased, so matching is case-insensitive.
type PhraseMatcher struct {
	nodes []ahoNode
}

type ahoNode struct {
	next map[byte]int
	fail int
	out  []string
}

func NewPhraseMatcher(phrases []string) (*PhraseMatcher, error) {
	if len(phrases) == 0 {
		return nil, errors.New("phrases are required")
	}

	nodes := []ahoNode{{next: map[byte]int{}, fail: 0}}
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		current := 0
		for i := 0; i < len(phrase); i++ {
			b := phrase[i]
			next, ok := nodes[current].next[b]
			if !ok {
				nodes = append(nodes, ahoNode{next: map[byte]int{}, fail: 0})
				next = len(nodes) - 1
				nodes[current].next[b] = next
			}
			current = next
		}
		nodes[current].out = append(nodes[current].out, phrase)
	}

	if len(nodes) == 1 {
		return nil, errors.New("no non-empty phrases")
	}

	queue := make([]int, 0, len(nodes[0].next))
	for _, next := range nodes[0].next {
		nodes[next].fail = 0
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for b, next := range nodes[state].next {
			fail := nodes[state].fail
			for fail != 0 {
				if _, ok := nodes[fail].next[b]; ok {
					break
				}
				fail = nodes[fail].fail
			}
			if target, ok := nodes[fail].next[b]; ok && target != next {
				nodes[next].fail = target
			} else {
				nodes[next].fail = 0
			}
			nodes[next].out = append(nodes[next].out, nodes[nodes[next].fail].out...)
			queue = append(queue, next)
		}
	}

	return &PhraseMatcher{nodes: nodes}, nil
}

func (m *PhraseMatcher) Match(input string) (bool, string) {
	input = strings.ToLower(input)
	state := 0
	for i := 0; i < len(input); i++ {
		b := input[i]
		for state != 0 {
			if _, ok := m.nodes[state].next[b]; ok {
				break
			}
			state = m.nodes[state].fail
		}

		if next, ok := m.nodes[state].next[b]; ok {
			state = next
		}

		if len(m.nodes[state].out) > 0 {
			return true, snippet(m.nodes[state].out[0])
		}
	}

	return false, ""
}
