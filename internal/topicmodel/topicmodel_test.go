package topicmodel

import (
	"math"
	"path/filepath"
	"testing"
)

func buildSimple(t *testing.T) *TopicModel {
	b := NewBuilder("en")
	b.AddWord(0, "cat", 0.3)
	b.AddWord(0, "dog", 0.7)
	b.AddWord(1, "cat", 0.9)
	b.AddWord(1, "dog", 0.1)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func TestBuilder_PadsMissingCells(t *testing.T) {
	b := NewBuilder("")
	b.AddWord(0, "cat", 1.0)
	b.AddWord(1, "dog", 1.0)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.K() != 2 {
		t.Fatalf("k = %d, want 2", m.K())
	}
	row0, _ := m.GetTopic(0)
	if len(row0) != 2 {
		t.Fatalf("len(row0) = %d, want 2", len(row0))
	}
}

func TestNormalize_RowStochastic(t *testing.T) {
	m := buildSimple(t)
	norm := m.Normalize()
	const eps = 1e-9
	for t2 := 0; t2 < norm.K(); t2++ {
		row, _ := norm.GetTopic(t2)
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-1.0) > float64(norm.K())*eps {
			t.Errorf("topic %d sums to %v, want ~1", t2, sum)
		}
	}
}

func TestGetWordsOfTopicSorted(t *testing.T) {
	m := buildSimple(t)
	words, ok := m.GetWordsOfTopicSorted(0)
	if !ok {
		t.Fatal("expected topic 0 to exist")
	}
	if words[0].Word != "dog" || words[1].Word != "cat" {
		t.Errorf("sorted words = %v, want dog before cat", words)
	}
}

func TestGetDocProbability_ReturnsNormalizedTopics(t *testing.T) {
	m := buildSimple(t)
	id, _ := m.Vocabulary().WordToID("cat")
	probs, _, _, err := m.GetDocProbability([]WordCount{{ID: id, Count: 5}}, DocProbabilityOptions{
		GammaThreshold: 1e-4,
	})
	if err != nil {
		t.Fatalf("get_doc_probability: %v", err)
	}
	sum := 0.0
	for _, tp := range probs {
		sum += tp.Prob
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("topic probabilities sum to %v, want ~1", sum)
	}
}

func TestRoundTrip_Binary(t *testing.T) {
	m := buildSimple(t)
	path := filepath.Join(t.TempDir(), "tm.bin")
	if err := m.SaveBinary(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadBinary(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.K() != m.K() {
		t.Errorf("k = %d, want %d", got.K(), m.K())
	}
	row, _ := got.GetTopic(0)
	origRow, _ := m.GetTopic(0)
	for i := range row {
		if row[i] != origRow[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], origRow[i])
		}
	}
}

func TestRoundTrip_JSON(t *testing.T) {
	m := buildSimple(t)
	path := filepath.Join(t.TempDir(), "tm.json")
	if err := m.SaveJSON(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.K() != m.K() {
		t.Errorf("k = %d, want %d", got.K(), m.K())
	}
}
