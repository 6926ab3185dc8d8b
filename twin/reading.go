package twin

import "time"

// Flags marks quality conditions detected on a single reading.
// Negative, ImpossibleHigh and DarkAlert derive from the observed value
// alone; Stuck needs the previous reading and is only set during series
// generation. The buckets are independent: one reading can raise several.
type Flags struct {
	Negative       bool `bson:"is_negative"        json:"is_negative"`
	ImpossibleHigh bool `bson:"is_impossible_high" json:"is_impossible_high"`
	DarkAlert      bool `bson:"is_dark_alert"      json:"is_dark_alert"`
	Stuck          bool `bson:"is_stuck"           json:"is_stuck"`
}

// Any reports whether at least one flag is raised.
func (f Flags) Any() bool {
	return f.Negative || f.ImpossibleHigh || f.DarkAlert || f.Stuck
}

// Reading is one sampling instant of the twin: the model prediction and the
// simulated observation side by side, plus the inputs that produced them.
// Field names match the stored document and API wire format.
type Reading struct {
	RoomID       string    `bson:"room_id"       json:"room_id"`
	DeviceID     string    `bson:"device_id"     json:"device_id"`
	ModelVersion string    `bson:"model_version" json:"model_version"`
	TS           time.Time `bson:"ts"            json:"ts"` // always UTC
	CloudCover   float64   `bson:"cloud_cover"   json:"cloud_cover"`
	LuxPred      float64   `bson:"lux_pred"      json:"lux_pred"`
	LuxObs       float64   `bson:"lux_obs"       json:"lux_obs"`
	Flags        Flags     `bson:"flags"         json:"flags"`
}
