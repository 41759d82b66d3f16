package domain

import (
	"encoding/json"
	"fmt"
)

// DriverRecord is the persisted form of a Driver.
type DriverRecord struct {
	Place    *int     `json:"place"`
	Name     *string  `json:"name"`
	KartID   KartID   `json:"kart_id"`
	LapTimes []string `json:"lap_times"`
}

// UnmarshalJSON also accepts the legacy "times" key for lap times.
func (r *DriverRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Place    *int     `json:"place"`
		Name     *string  `json:"name"`
		KartID   KartID   `json:"kart_id"`
		LapTimes []string `json:"lap_times"`
		Times    []string `json:"times"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Place = raw.Place
	r.Name = raw.Name
	r.KartID = raw.KartID
	r.LapTimes = raw.LapTimes
	if r.LapTimes == nil {
		r.LapTimes = raw.Times
	}
	if r.LapTimes == nil {
		r.LapTimes = []string{}
	}
	return nil
}

// HeatRecord is the persisted form of a Heat. The lap table is not part of
// it; it is regenerated from the drivers on load.
type HeatRecord struct {
	SessionID string         `json:"session_id"`
	Track     Track          `json:"track"`
	SideInfo  [][]string     `json:"side_info"`
	StintInfo [][]string     `json:"stint_info"`
	Drivers   []DriverRecord `json:"drivers"`
}

// Record converts the driver into its persisted form.
func (d *Driver) Record() DriverRecord {
	rec := DriverRecord{KartID: d.kart, LapTimes: d.LapTimes()}
	if d.place != nil {
		p := *d.place
		rec.Place = &p
	}
	if d.name != nil {
		n := *d.name
		rec.Name = &n
	}
	return rec
}

// DriverFromRecord rebuilds a driver, replaying its lap times in order.
func DriverFromRecord(rec DriverRecord) *Driver {
	d := &Driver{kart: rec.KartID}
	if rec.Place != nil {
		p := *rec.Place
		d.place = &p
	}
	if rec.Name != nil {
		n := *rec.Name
		d.name = &n
	}
	for _, t := range rec.LapTimes {
		d.AddLapTime(t)
	}
	return d
}

// Record converts the heat into its persisted form.
func (h *Heat) Record() HeatRecord {
	drivers := make([]DriverRecord, len(h.drivers))
	for i, d := range h.drivers {
		drivers[i] = d.Record()
	}
	return HeatRecord{
		SessionID: h.SessionID,
		Track:     h.Track,
		SideInfo:  cloneRows(h.sideInfo),
		StintInfo: cloneRows(h.stintInfo),
		Drivers:   drivers,
	}
}

// HeatFromRecord rebuilds a heat from its persisted form.
func HeatFromRecord(rec HeatRecord) (*Heat, error) {
	if rec.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id is missing", ErrMalformedRecord)
	}
	track := rec.Track
	if track == "" {
		track = DefaultTrack
	}
	if !track.Valid() {
		return nil, fmt.Errorf("%w: %v %q", ErrMalformedRecord, ErrUnknownTrack, track)
	}
	drivers := make([]*Driver, len(rec.Drivers))
	for i, d := range rec.Drivers {
		drivers[i] = DriverFromRecord(d)
	}
	return NewHeat(rec.SessionID, track, drivers, rec.SideInfo, rec.StintInfo), nil
}

// EncodeHeat serializes a heat as indented JSON.
func EncodeHeat(h *Heat) ([]byte, error) {
	data, err := json.MarshalIndent(h.Record(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode heat %s: %w", h.SessionID, err)
	}
	return data, nil
}

// DecodeHeat parses bytes produced by EncodeHeat. Missing side_info and
// stint_info decode as empty; a missing session_id is an ErrMalformedRecord.
func DecodeHeat(data []byte) (*Heat, error) {
	var rec HeatRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return HeatFromRecord(rec)
}
