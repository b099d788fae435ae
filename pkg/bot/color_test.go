package bot

import "testing"

func TestNextDeadChatColorCycles(t *testing.T) {
	seen := make(map[int]bool)
	color := deadChatColors[0]
	for range deadChatColors {
		seen[color] = true
		color = nextDeadChatColor(color)
	}
	if len(seen) != len(deadChatColors) {
		t.Errorf("cycle visited %d colors, want %d", len(seen), len(deadChatColors))
	}
	if color != deadChatColors[0] {
		t.Errorf("cycle did not wrap, ended at %#06x", color)
	}
}

func TestNextDeadChatColorUnknownRestartsCycle(t *testing.T) {
	if got := nextDeadChatColor(0x000000); got != deadChatColors[0] {
		t.Errorf("unknown color should restart the cycle, got %#06x", got)
	}
}
