package state

import "time"

// PlaybackState manages scrubbing through a discrete-timestep path
// table. CurrentTime is a timestep index, not wall-clock time; it is
// kept as a float so continuous playback can land between two integer
// timesteps, which State.CurrentCells then floors.
type PlaybackState struct {
	CurrentTime float64 // current timestep, 0..MaxTime
	MaxTime     float64 // last timestep in the loaded path table (Horizon-1)
	Speed       float64 // timesteps advanced per second while playing
	Playing     bool
	lastUpdate  time.Time
}

// NewPlaybackState creates scrubber state bounded to [0, maxTime].
func NewPlaybackState(maxTime float64) *PlaybackState {
	return &PlaybackState{
		MaxTime:    maxTime,
		Speed:      2.0,
		lastUpdate: time.Now(),
	}
}

// TogglePlay starts or stops playback, restarting from 0 if it was at
// the end.
func (p *PlaybackState) TogglePlay() {
	p.Playing = !p.Playing
	if p.Playing {
		p.lastUpdate = time.Now()
		if p.CurrentTime >= p.MaxTime {
			p.CurrentTime = 0
		}
	}
}

// Reset returns the scrubber to t=0 and stops playback.
func (p *PlaybackState) Reset() {
	p.CurrentTime = 0
	p.Playing = false
}

// Advance moves CurrentTime forward by elapsed wall-clock time scaled
// by Speed. Called once per frame while Playing.
func (p *PlaybackState) Advance() {
	if !p.Playing {
		return
	}
	now := time.Now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	p.lastUpdate = now

	p.CurrentTime += elapsed * p.Speed
	if p.CurrentTime >= p.MaxTime {
		p.CurrentTime = p.MaxTime
		p.Playing = false
	}
}

// SetTime jumps the scrubber to t, clamped to [0, MaxTime].
func (p *PlaybackState) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	if t > p.MaxTime {
		t = p.MaxTime
	}
	p.CurrentTime = t
}

// StepForward pauses and advances exactly one timestep.
func (p *PlaybackState) StepForward() {
	p.Playing = false
	p.SetTime(float64(int(p.CurrentTime) + 1))
}

// StepBack pauses and rewinds exactly one timestep.
func (p *PlaybackState) StepBack() {
	p.Playing = false
	p.SetTime(float64(int(p.CurrentTime) - 1))
}

// SetSpeed clamps and sets the playback speed in timesteps/second.
func (p *PlaybackState) SetSpeed(speed float64) {
	if speed < 0.25 {
		speed = 0.25
	}
	if speed > 50 {
		speed = 50
	}
	p.Speed = speed
}

// Progress returns current position as a 0..1 fraction of MaxTime.
func (p *PlaybackState) Progress() float64 {
	if p.MaxTime <= 0 {
		return 0
	}
	return p.CurrentTime / p.MaxTime
}
