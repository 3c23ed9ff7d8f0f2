package modelnet

// packet is one queued unit of work. Timestamp orders FCFS queues;
// Priority additionally orders by Prio (lower first) before falling back
// to the sub-policy's own ordering of same-priority packets.
type packet struct {
	Env       *Envelope
	Timestamp float64
	Prio      int
}

// Scheduler sequences packets belonging to one queue. Enqueue/Dequeue are
// mirrored by UndoDequeue/UndoEnqueue so a base-LP reverse handler can
// restore the exact queue contents a forward handler consumed.
type Scheduler struct {
	cfg   SchedConfig
	items []packet
}

// NewScheduler creates an empty scheduler running the given policy.
func NewScheduler(cfg SchedConfig) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Len reports how many packets are currently queued.
func (s *Scheduler) Len() int { return len(s.items) }

// Enqueue appends a packet, then reorders the queue to reflect the policy.
func (s *Scheduler) Enqueue(p packet) {
	s.items = append(s.items, p)
	s.reorder()
}

// reorder re-sorts the queue in place. FCFS and FCFS-FULL both keep strict
// arrival order (FCFS-FULL differs only in packet size upstream in
// Params), Priority sorts by Prio and breaks ties using SubPolicy's
// ordering (arrival order for FCFS/FCFS-FULL).
func (s *Scheduler) reorder() {
	if s.cfg.Policy != Priority {
		return
	}
	// insertion sort: queues stay short and this keeps arrival order for
	// equal-priority packets, which is what the FCFS sub-policy needs.
	for i := 1; i < len(s.items); i++ {
		j := i
		for j > 0 && s.items[j-1].Prio > s.items[j].Prio {
			s.items[j-1], s.items[j] = s.items[j], s.items[j-1]
			j--
		}
	}
}

// Dequeue removes and returns the head-of-queue packet. ok is false on an
// empty queue.
func (s *Scheduler) Dequeue() (packet, bool) {
	if len(s.items) == 0 {
		return packet{}, false
	}
	p := s.items[0]
	s.items = s.items[1:]
	return p, true
}

// UndoDequeue re-inserts a packet at the front of the queue, undoing the
// most recent Dequeue. It does not re-run reorder: the packet is being
// restored to the exact position it was removed from.
func (s *Scheduler) UndoDequeue(p packet) {
	s.items = append([]packet{p}, s.items...)
}

// UndoEnqueue removes the most recently enqueued packet. Valid only when
// called immediately after the matching Enqueue with nothing dequeued in
// between, which is how the base-LP reverse handlers use it.
func (s *Scheduler) UndoEnqueue() {
	if len(s.items) == 0 {
		return
	}
	s.items = s.items[:len(s.items)-1]
}

// Peek returns the head-of-queue packet without removing it.
func (s *Scheduler) Peek() (packet, bool) {
	if len(s.items) == 0 {
		return packet{}, false
	}
	return s.items[0], true
}
