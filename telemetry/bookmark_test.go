package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_GrowthSpurt(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 50, Population: 10 + i, Capacity: 500, Extended: 2, Branched: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 250, Population: 40, Capacity: 500, Extended: 12, Branched: 4})
	if !hasBookmark(bookmarks, BookmarkGrowthSpurt) {
		t.Error("expected growth_spurt bookmark")
	}
}

func TestBookmarkDetector_NoSpurtWithoutHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bookmarks := bd.Check(WindowStats{WindowEndTick: 50, Population: 40, Capacity: 500, Extended: 30})
	if hasBookmark(bookmarks, BookmarkGrowthSpurt) {
		t.Error("growth_spurt needs history to compare against")
	}
}

func TestBookmarkDetector_ResetStorm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 50, Population: 100, Capacity: 500, Resets: 1, Extended: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 200, Population: 100, Capacity: 500, Resets: 9, Extended: 1})
	if !hasBookmark(bookmarks, BookmarkResetStorm) {
		t.Error("expected reset_storm bookmark")
	}
}

func TestBookmarkDetector_CapReachedOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	first := bd.Check(WindowStats{WindowEndTick: 50, Population: 500, Capacity: 500})
	if !hasBookmark(first, BookmarkCapReached) {
		t.Fatal("expected cap_reached bookmark")
	}

	again := bd.Check(WindowStats{WindowEndTick: 100, Population: 500, Capacity: 500})
	if hasBookmark(again, BookmarkCapReached) {
		t.Error("cap_reached should trigger only once")
	}
}

func TestBookmarkDetector_Stalled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: i * 50, Population: 30, Capacity: 500})
		if hasBookmark(bookmarks, BookmarkStalled) {
			triggered++
			if i != stalledWindows-1 {
				t.Errorf("stalled triggered at window %d, want %d", i, stalledWindows-1)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("stalled triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_FullPlantIsNotStalled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: i * 50, Population: 500, Capacity: 500})
		if hasBookmark(bookmarks, BookmarkStalled) {
			t.Fatal("a plant at its cap cannot stall")
		}
	}
}
