// Package rag retrieves salon knowledge relevant to a user message.
//
// Retrieval is plain keyword overlap: each knowledge entry carries a list
// of keywords and is scored by how many of them occur in the query. No
// embeddings are involved; the corpus is a few dozen entries at most.
package rag

import (
	"regexp"
	"sort"
	"strings"

	"github.com/beauteq/salon-assistant/pkg/store"
)

// DefaultTopK is the number of entries injected into the prompt
const DefaultTopK = 2

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Result is one scored knowledge entry
type Result struct {
	Content  string
	Category string
	Score    int
}

// Retriever scores knowledge entries against user queries
type Retriever struct {
	knowledge store.KnowledgeStore
}

// New creates a Retriever over the given knowledge store
func New(knowledge store.KnowledgeStore) *Retriever {
	return &Retriever{knowledge: knowledge}
}

// Search returns the topK highest scoring entries for the query. Entries
// with no keyword overlap are dropped.
func (r *Retriever) Search(query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryWords := wordSet(query)

	items, err := r.knowledge.ListKnowledge()
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, item := range items {
		score := 0
		for word := range wordSet(item.Keywords) {
			if _, ok := queryWords[word]; ok {
				score++
			}
		}
		if score > 0 {
			results = append(results, Result{
				Content:  item.Content,
				Category: item.Category,
				Score:    score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func wordSet(text string) map[string]struct{} {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
