// ABOUTME: Background purge of expired entries in the pinned-message index
// ABOUTME: Keeps long-lived sessions from accumulating dead pins

package chat

import "time"

// sweep runs in a background goroutine, periodically removing expired pins
// from the side index. The pin flags on the raw messages are left alone:
// expiry there is evaluated lazily by the read views.
func (s *Service) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep()
		case <-s.sweepDone:
			return
		}
	}
}

// runSweep drops expired pinned-index entries and empty index keys.
func (s *Service) runSweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for chatID, pins := range s.pinned {
		kept := pins[:0]
		for _, msg := range pins {
			if msg.PinnedUntil.After(now) {
				kept = append(kept, msg)
			}
		}
		if len(kept) == 0 {
			delete(s.pinned, chatID)
			continue
		}
		s.pinned[chatID] = kept
	}
}
