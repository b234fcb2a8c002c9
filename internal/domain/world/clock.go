package world

type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

// ClockConfig maps simulation ticks onto hours. Night runs from NightStartHour
// (inclusive) to NightEndHour (exclusive) and may wrap past midnight.
type ClockConfig struct {
	HoursPerDay    int
	NightStartHour int
	NightEndHour   int
}

type Clock struct {
	cfg ClockConfig
}

func NewClock(cfg ClockConfig) Clock {
	if cfg.HoursPerDay <= 0 {
		cfg.HoursPerDay = 24
	}
	if cfg.NightStartHour <= 0 && cfg.NightEndHour <= 0 {
		cfg.NightStartHour = 22
		cfg.NightEndHour = 8
	}
	cfg.NightStartHour = mod(cfg.NightStartHour, cfg.HoursPerDay)
	cfg.NightEndHour = mod(cfg.NightEndHour, cfg.HoursPerDay)
	return Clock{cfg: cfg}
}

func DefaultClock() Clock {
	return NewClock(ClockConfig{})
}

func (c Clock) HourAt(tick int64) int {
	return int(tick % int64(c.cfg.HoursPerDay))
}

func (c Clock) DayAt(tick int64) int64 {
	return tick / int64(c.cfg.HoursPerDay)
}

func (c Clock) IsNight(tick int64) bool {
	h := c.HourAt(tick)
	start, end := c.cfg.NightStartHour, c.cfg.NightEndHour
	if start == end {
		return false
	}
	if start < end {
		return h >= start && h < end
	}
	return h >= start || h < end
}

// PhaseAt returns the phase of tick and how many ticks remain until it flips.
func (c Clock) PhaseAt(tick int64) (Phase, int) {
	if c.cfg.NightStartHour == c.cfg.NightEndHour {
		return PhaseDay, c.cfg.HoursPerDay - c.HourAt(tick)
	}
	h := c.HourAt(tick)
	if c.IsNight(tick) {
		return PhaseNight, c.hoursUntil(h, c.cfg.NightEndHour)
	}
	return PhaseDay, c.hoursUntil(h, c.cfg.NightStartHour)
}

func (c Clock) hoursUntil(from, to int) int {
	d := mod(to-from, c.cfg.HoursPerDay)
	if d == 0 {
		d = c.cfg.HoursPerDay
	}
	return d
}
