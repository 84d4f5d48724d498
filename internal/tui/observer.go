package tui

import "github.com/vitrine-tui/vitrine/internal/lazyload"

// ChannelObserver adapts lazyload.Observer to a channel for Bubble Tea.
// Events are delivered on the dispatch loop goroutine, so the send must
// never block.
type ChannelObserver struct {
	ch chan<- lazyload.Event
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- lazyload.Event) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnLoadEvent sends the event to the channel (non-blocking if full).
func (o *ChannelObserver) OnLoadEvent(ev lazyload.Event) {
	select {
	case o.ch <- ev:
	default: // Non-blocking if channel full
	}
}
