package provider

// Subscription delivers state changes. When the consumer falls behind,
// older undelivered states are replaced so the newest one always arrives.
type Subscription struct {
	ch chan State
	p  *Provider
}

// Subscribe registers a consumer. buffer below one is raised to one.
func (p *Provider) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	s := &Subscription{ch: make(chan State, buffer), p: p}

	p.subMu.Lock()
	defer p.subMu.Unlock()
	if p.closed {
		close(s.ch)
		return s
	}
	p.subs = append(p.subs, s)
	return s
}

// C returns the delivery channel. It is closed by Close or Provider.Close.
func (s *Subscription) C() <-chan State {
	return s.ch
}

// Close removes the subscription.
func (s *Subscription) Close() {
	p := s.p
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for i, sub := range p.subs {
		if sub == s {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// broadcast runs under the reconciler's lock, so calls are serialized.
func (p *Provider) broadcast(st State) {
	p.subMu.RLock()
	defer p.subMu.RUnlock()
	for _, s := range p.subs {
		select {
		case s.ch <- st:
			continue
		default:
		}
		// full: drop the oldest queued state to make room
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- st:
		default:
			p.log.Warn("subscriber channel full, dropping state", "revision", st.Revision)
		}
	}
}
