package domain

// Driver is one competitor of a heat: identity, kart and the lap times in
// the order they were recorded.
type Driver struct {
	place    *int
	name     *string
	kart     KartID
	lapTimes []string
}

// NewDriver creates a driver with a known place and name.
func NewDriver(place int, name string, kart KartID) *Driver {
	return &Driver{place: &place, name: &name, kart: kart}
}

// Place returns the finishing place and whether it is set.
func (d *Driver) Place() (int, bool) {
	if d.place == nil {
		return 0, false
	}
	return *d.place, true
}

// SetPlace overrides the finishing place.
func (d *Driver) SetPlace(place int) {
	d.place = &place
}

// ClearPlace marks the place as unknown.
func (d *Driver) ClearPlace() {
	d.place = nil
}

// Name returns the driver name and whether it is set.
func (d *Driver) Name() (string, bool) {
	if d.name == nil {
		return "", false
	}
	return *d.name, true
}

// DisplayName returns the name, or "" when it is unknown.
func (d *Driver) DisplayName() string {
	name, _ := d.Name()
	return name
}

// SetName replaces the driver name.
func (d *Driver) SetName(name string) {
	d.name = &name
}

// Kart returns the kart id.
func (d *Driver) Kart() KartID {
	return d.kart
}

// SetKart records a kart change.
func (d *Driver) SetKart(kart KartID) {
	d.kart = kart
}

// AddLapTime appends one lap time. Values are stored verbatim.
func (d *Driver) AddLapTime(t string) {
	d.lapTimes = append(d.lapTimes, t)
}

// LapTimes returns a copy of the recorded lap times.
func (d *Driver) LapTimes() []string {
	return append([]string{}, d.lapTimes...)
}

// LapCount returns the number of recorded lap times.
func (d *Driver) LapCount() int {
	return len(d.lapTimes)
}

// Clone returns an independent copy of the driver.
func (d *Driver) Clone() *Driver {
	c := &Driver{kart: d.kart, lapTimes: d.LapTimes()}
	if d.place != nil {
		p := *d.place
		c.place = &p
	}
	if d.name != nil {
		n := *d.name
		c.name = &n
	}
	return c
}
