package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGrowthSpurt BookmarkType = "growth_spurt"
	BookmarkResetStorm  BookmarkType = "reset_storm"
	BookmarkCapReached  BookmarkType = "cap_reached"
	BookmarkStalled     BookmarkType = "stalled"
)

// stalledWindows is how many consecutive birthless windows below the cap
// trigger a stalled bookmark.
const stalledWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a growth run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	capReached    bool
	stalledCount  int
	stalledMarked bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Growth spurt: births > 2x rolling average
	if b := bd.checkGrowthSpurt(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Reset storm: singularity resets > 2x rolling average
	if b := bd.checkResetStorm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Cap reached: first window at MaxNodes
	if b := bd.checkCapReached(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Stalled: no births for several windows while below the cap
	if b := bd.checkStalled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset forgets all history.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkGrowthSpurt(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Extended + h.Branched
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	born := stats.Extended + stats.Branched
	if float64(born) > avg*2.0 && born >= 5 {
		return &Bookmark{
			Type:        BookmarkGrowthSpurt,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", born, float64(born)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkResetStorm(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Resets
	}
	avg := float64(total) / float64(len(history))

	if stats.Resets >= 3 && float64(stats.Resets) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkResetStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d singularity resets vs %.1f average", stats.Resets, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCapReached(stats WindowStats) *Bookmark {
	if bd.capReached || stats.Capacity == 0 || stats.Population < stats.Capacity {
		return nil
	}
	bd.capReached = true
	return &Bookmark{
		Type:        BookmarkCapReached,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population reached cap of %d nodes", stats.Capacity),
	}
}

func (bd *BookmarkDetector) checkStalled(stats WindowStats) *Bookmark {
	if stats.Extended+stats.Branched > 0 || stats.Population >= stats.Capacity {
		bd.stalledCount = 0
		bd.stalledMarked = false
		return nil
	}

	bd.stalledCount++
	if bd.stalledCount < stalledWindows || bd.stalledMarked {
		return nil
	}
	bd.stalledMarked = true
	return &Bookmark{
		Type:        BookmarkStalled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No growth for %d windows at %d/%d nodes", bd.stalledCount, stats.Population, stats.Capacity),
	}
}
