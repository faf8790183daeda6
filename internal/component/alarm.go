package component

// AlarmID identifies one scheduled alarm. Ids are never reused.
type AlarmID uint64

// Alarm is a pending timer on an entity. Remaining counts down in seconds;
// a repeating alarm restarts at Interval after it fires.
type Alarm struct {
	ID        AlarmID
	Callback  string
	Interval  float32
	Remaining float32
	Repeating bool
}

// Alarms holds every pending alarm of one entity, in scheduling order.
type Alarms struct {
	List []Alarm
}
