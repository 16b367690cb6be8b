package modes

import "time"

// Phase is a stage of the Pomodoro cycle
type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "Focus"
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	}
	return "unknown"
}

// Durations configures the length of each phase
type Durations struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int // work phases between long breaks
}

// DefaultDurations is the classic 25/5/15 cycle
var DefaultDurations = Durations{
	Work:           25 * time.Minute,
	ShortBreak:     5 * time.Minute,
	LongBreak:      15 * time.Minute,
	LongBreakEvery: 4,
}

// Pomodoro tracks a focus timer. It does not tick by itself; callers pass
// the current time.
type Pomodoro struct {
	d         Durations
	phase     Phase
	workDone  int
	endsAt    time.Time
	running   bool
	remaining time.Duration // while paused
}

// NewPomodoro creates a stopped timer at the start of a work phase
func NewPomodoro(d Durations) *Pomodoro {
	if d.LongBreakEvery <= 0 {
		d.LongBreakEvery = DefaultDurations.LongBreakEvery
	}
	return &Pomodoro{d: d, phase: PhaseWork, remaining: d.Work}
}

func (p *Pomodoro) length(ph Phase) time.Duration {
	switch ph {
	case PhaseShortBreak:
		return p.d.ShortBreak
	case PhaseLongBreak:
		return p.d.LongBreak
	}
	return p.d.Work
}

// Phase returns the current phase
func (p *Pomodoro) Phase() Phase { return p.phase }

// Running reports whether the timer is counting down
func (p *Pomodoro) Running() bool { return p.running }

// WorkDone returns how many work phases have finished
func (p *Pomodoro) WorkDone() int { return p.workDone }

// Start starts or resumes the countdown
func (p *Pomodoro) Start(now time.Time) {
	if p.running {
		return
	}
	p.endsAt = now.Add(p.remaining)
	p.running = true
}

// Pause freezes the countdown
func (p *Pomodoro) Pause(now time.Time) {
	if !p.running {
		return
	}
	p.remaining = p.Remaining(now)
	p.running = false
}

// Remaining returns the time left in the current phase
func (p *Pomodoro) Remaining(now time.Time) time.Duration {
	if !p.running {
		return p.remaining
	}
	left := p.endsAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Done reports whether the current phase has run out
func (p *Pomodoro) Done(now time.Time) bool {
	return p.Remaining(now) == 0
}

// Advance ends the current phase, stops the timer and moves to the next
// phase. It returns the phase that ended.
func (p *Pomodoro) Advance() Phase {
	ended := p.phase
	if ended == PhaseWork {
		p.workDone++
		if p.workDone%p.d.LongBreakEvery == 0 {
			p.phase = PhaseLongBreak
		} else {
			p.phase = PhaseShortBreak
		}
	} else {
		p.phase = PhaseWork
	}
	p.running = false
	p.remaining = p.length(p.phase)
	return ended
}

// Reset returns to a fresh work phase, keeping the completed count
func (p *Pomodoro) Reset() {
	p.phase = PhaseWork
	p.running = false
	p.remaining = p.d.Work
}
