package classify

import (
	"testing"

	"cardwatch/internal/config"
	"cardwatch/internal/remote"
)

func defaultRules() Rules {
	return NewRules([]string{"gabarito"}, []string{"pdf", "png", "jpg", "jpeg"})
}

func listing(names ...string) []remote.Item {
	items := make([]remote.Item, 0, len(names))
	for i, name := range names {
		items = append(items, remote.Item{ID: idFor(i), Name: name})
	}
	return items
}

func idFor(i int) string {
	return string(rune('a'+i)) + "-id"
}

func TestClassifyExcludesProcessedIDs(t *testing.T) {
	rules := defaultRules()
	input := listing("card1.png", "card2.png", "card3.png")
	processed := map[string]struct{}{input[1].ID: {}}

	batch := rules.Classify(input, processed)

	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
	for _, item := range batch {
		if _, done := processed[item.ID]; done {
			t.Errorf("batch contains processed id %q", item.ID)
		}
	}
}

func TestClassifyExcludesMarkerRegardlessOfExtension(t *testing.T) {
	rules := defaultRules()
	input := listing("gabarito_turma_a.png", "GABARITO.pdf", "prova_gabarito_v2.jpg", "card.png")

	batch := rules.Classify(input, nil)

	if len(batch) != 1 || batch[0].Name != "card.png" {
		t.Fatalf("batch = %v, want only card.png", batch)
	}
}

func TestClassifyExtensionFilter(t *testing.T) {
	rules := defaultRules()
	input := listing("a.png", "b.PDF", "c.jpeg", "d.JPG", "e.tiff", "f.txt", "noextension", "g.png.bak")

	batch := rules.Classify(input, nil)

	want := []string{"a.png", "b.PDF", "c.jpeg", "d.JPG"}
	if len(batch) != len(want) {
		t.Fatalf("batch = %v, want %v", batch, want)
	}
	for i, name := range want {
		if batch[i].Name != name {
			t.Errorf("batch[%d] = %q, want %q", i, batch[i].Name, name)
		}
	}
}

func TestClassifyPreservesListingOrder(t *testing.T) {
	rules := defaultRules()
	input := listing("z.png", "m.jpg", "a.pdf", "skip.txt", "b.jpeg")

	batch := rules.Classify(input, nil)

	want := []string{"z.png", "m.jpg", "a.pdf", "b.jpeg"}
	for i, name := range want {
		if batch[i].Name != name {
			t.Errorf("order broken at %d: got %q, want %q", i, batch[i].Name, name)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	rules := defaultRules()
	input := listing("a.png", "gabarito.png", "b.jpg", "c.doc")
	processed := map[string]struct{}{input[2].ID: {}}

	first := rules.Classify(input, processed)
	second := rules.Classify(input, processed)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic batch size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("non-deterministic batch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestClassifyEmptyListing(t *testing.T) {
	rules := defaultRules()
	if batch := rules.Classify(nil, nil); len(batch) != 0 {
		t.Errorf("empty listing should yield empty batch, got %v", batch)
	}
}

func TestFromConfig(t *testing.T) {
	rules := FromConfig(config.Classify{
		ExcludedMarkers: []string{"Answer-Key"},
		Extensions:      []string{".PNG"},
	})
	input := listing("scan_answer-key_1.png", "scan_2.png", "scan_3.jpg")

	batch := rules.Classify(input, nil)

	if len(batch) != 1 || batch[0].Name != "scan_2.png" {
		t.Errorf("batch = %v, want only scan_2.png", batch)
	}
}
