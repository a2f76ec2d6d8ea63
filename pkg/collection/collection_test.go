package collection_test

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/shashiranjanraj/dukaan/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, strconv.Itoa)
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map = %v, want %v", got, want)
	}

	if got := collection.Map(nil, strconv.Itoa); len(got) != 0 {
		t.Errorf("Map(nil) = %v, want empty", got)
	}
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	got := collection.Filter([]int{1, 2, 3, 4, 5}, even)
	want := []int{2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %v, want %v", got, want)
	}
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]string{"soap", "tea", "rice"}, func(s string) bool {
		return strings.HasPrefix(s, "t")
	})
	if !ok || v != "tea" {
		t.Errorf("First = (%q, %v), want (tea, true)", v, ok)
	}

	_, ok = collection.First([]string{"soap"}, func(s string) bool { return s == "x" })
	if ok {
		t.Error("First reported a match in a slice without one")
	}
}

func TestChunk(t *testing.T) {
	got := collection.Chunk([]int{1, 2, 3, 4, 5}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk = %v, want %v", got, want)
	}

	if got := collection.Chunk([]int(nil), 3); len(got) != 0 {
		t.Errorf("Chunk(nil) = %v, want empty", got)
	}

	// Non-positive size keeps the slice whole.
	got = collection.Chunk([]int{1, 2}, 0)
	if len(got) != 1 || !reflect.DeepEqual(got[0], []int{1, 2}) {
		t.Errorf("Chunk(size=0) = %v, want one chunk", got)
	}
}

func TestGroupBy(t *testing.T) {
	got := collection.GroupBy([]int{1, 2, 3, 4, 5}, func(n int) string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	})
	if !reflect.DeepEqual(got["even"], []int{2, 4}) || !reflect.DeepEqual(got["odd"], []int{1, 3, 5}) {
		t.Errorf("GroupBy = %v", got)
	}
}

func TestContains(t *testing.T) {
	if !collection.Contains([]string{"a", "b"}, "b") {
		t.Error("Contains missed an existing element")
	}
	if collection.Contains([]string{"a", "b"}, "c") {
		t.Error("Contains found an absent element")
	}
}
