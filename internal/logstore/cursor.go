package logstore

// The cursor indexes the filtered view of the log. Callers pass the number of
// visible entries; it is clamped to the entry count so a stale filter result
// can never move the cursor past the data.

func (l *Log) Selected() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selected
}

func (l *Log) SelectPrevious() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected > 0 {
		l.selected--
	}
}

func (l *Log) SelectNext(visible int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	limit := l.limitLocked(visible)
	if l.selected+1 < limit {
		l.selected++
		return
	}
	l.clampLocked(limit)
}

func (l *Log) SelectFirst() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = 0
}

func (l *Log) SelectLast(visible int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = max(l.limitLocked(visible)-1, 0)
}

func (l *Log) ClampSelection(visible int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clampLocked(l.limitLocked(visible))
}

func (l *Log) limitLocked(visible int) int {
	return max(min(visible, len(l.entries)), 0)
}

func (l *Log) clampLocked(limit int) {
	if l.selected >= limit {
		l.selected = max(limit-1, 0)
	}
}
