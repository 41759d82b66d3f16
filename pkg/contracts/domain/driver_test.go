package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriver(t *testing.T) {
	d := NewDriver(1, "Max Verstappen", KartNumber(33))

	place, ok := d.Place()
	assert.True(t, ok)
	assert.Equal(t, 1, place)
	assert.Equal(t, "Max Verstappen", d.DisplayName())
	assert.Equal(t, KartNumber(33), d.Kart())
	assert.Empty(t, d.LapTimes())

	d.SetPlace(3)
	place, _ = d.Place()
	assert.Equal(t, 3, place)

	d.SetKart(KartNumber(99))
	assert.Equal(t, "99", d.Kart().String())

	d.AddLapTime("60.5")
	d.AddLapTime("59.8")
	d.AddLapTime("")
	assert.Equal(t, []string{"60.5", "59.8", ""}, d.LapTimes())
	assert.Equal(t, 3, d.LapCount())
}

func TestDriverOptionalFields(t *testing.T) {
	d := DriverFromRecord(DriverRecord{KartID: KartNumber(0)})

	_, ok := d.Place()
	assert.False(t, ok)
	_, ok = d.Name()
	assert.False(t, ok)
	assert.Equal(t, "", d.DisplayName())

	d.SetPlace(2)
	d.ClearPlace()
	_, ok = d.Place()
	assert.False(t, ok)
}

func TestDriverLapTimesAreCopies(t *testing.T) {
	d := NewDriver(1, "A", KartNumber(1))
	d.AddLapTime("10.1")

	times := d.LapTimes()
	times[0] = "changed"
	assert.Equal(t, []string{"10.1"}, d.LapTimes())

	c := d.Clone()
	c.AddLapTime("10.2")
	c.SetName("B")
	assert.Equal(t, 1, d.LapCount())
	assert.Equal(t, "A", d.DisplayName())
}
