package system

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/core/ecs"
	coresys "github.com/gunship/engine/internal/core/system"
)

// AlarmCallback runs when an alarm on entity goes off.
type AlarmCallback func(scene *ecs.Scene, entity ecs.EntityID)

var (
	ErrUnknownAlarmCallback = errors.New("alarm: unknown callback")
	ErrAlarmInterval        = errors.New("alarm: repeating interval must be positive")
)

type dueAlarm struct {
	id        component.AlarmID
	entity    ecs.EntityID
	callback  string
	at        float32 // seconds into the frame
	repeating bool
}

// AlarmSystem counts down per-entity alarms and runs their named callbacks.
// Phase 1 (PreUpdate).
//
// Alarms live in the Alarms component, so destroying an entity drops its
// alarms at the frame barrier, and an alarm never fires for an entity that
// is no longer alive. An alarm fires once its remaining time reaches zero;
// a repeating alarm fires at most once per frame. Alarms due in the same
// frame fire in order of when they came due, then by id. Callbacks may
// schedule or cancel alarms.
type AlarmSystem struct {
	named  map[string]AlarmCallback
	next   component.AlarmID
	frame  uint64
	owners map[component.AlarmID]*alarmOwner
	due    []dueAlarm
	empty  []ecs.EntityID
	fired  uint64
}

// alarmOwner tracks a scheduled alarm. seen is the last frame the alarm was
// found in its entity's Alarms row; entries not seen are gone.
type alarmOwner struct {
	entity ecs.EntityID
	seen   uint64
}

func NewAlarmSystem() *AlarmSystem {
	return &AlarmSystem{
		named:  make(map[string]AlarmCallback),
		owners: make(map[component.AlarmID]*alarmOwner),
	}
}

func (s *AlarmSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

// RegisterCallback stores cb under key. Re-registering a key replaces it,
// including for alarms already scheduled.
func (s *AlarmSystem) RegisterCallback(key string, cb AlarmCallback) {
	s.named[key] = cb
}

// Assign schedules a one-shot alarm that fires after seconds, counted from
// the next Update.
func (s *AlarmSystem) Assign(scene *ecs.Scene, entity ecs.EntityID, seconds float32, key string) component.AlarmID {
	return s.schedule(scene, entity, seconds, key, false)
}

// AssignRepeating schedules an alarm that fires every interval seconds until
// cancelled or its entity is destroyed.
func (s *AlarmSystem) AssignRepeating(scene *ecs.Scene, entity ecs.EntityID, interval float32, key string) component.AlarmID {
	if !(interval > 0) {
		panic(fmt.Errorf("%w: %v", ErrAlarmInterval, interval))
	}
	return s.schedule(scene, entity, interval, key, true)
}

func (s *AlarmSystem) schedule(scene *ecs.Scene, entity ecs.EntityID, seconds float32, key string, repeating bool) component.AlarmID {
	if !scene.IsAlive(entity) {
		panic(fmt.Errorf("%w: alarm on entity %d", ecs.ErrNotAlive, entity))
	}
	if _, ok := s.named[key]; !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownAlarmCallback, key))
	}
	s.next++
	alarm := component.Alarm{
		ID:        s.next,
		Callback:  key,
		Interval:  seconds,
		Remaining: seconds,
		Repeating: repeating,
	}

	alarms := ecs.Write[component.Alarms](scene, component.AlarmKey)
	defer alarms.Release()
	if a := alarms.GetMut(entity); a != nil {
		a.List = append(a.List, alarm)
	} else {
		alarms.Assign(entity, component.Alarms{List: []component.Alarm{alarm}})
	}
	s.owners[alarm.ID] = &alarmOwner{entity: entity, seen: s.frame}
	return alarm.ID
}

// Cancel stops the alarm with the given id. It reports false if the alarm
// already fired, was cancelled, or belongs to a destroyed entity.
func (s *AlarmSystem) Cancel(scene *ecs.Scene, id component.AlarmID) bool {
	owner, ok := s.owners[id]
	if !ok {
		return false
	}
	delete(s.owners, id)
	entity := owner.entity
	if !scene.IsAlive(entity) {
		return false
	}

	alarms := ecs.Write[component.Alarms](scene, component.AlarmKey)
	defer alarms.Release()
	if a := alarms.GetMut(entity); a != nil {
		a.List = slices.DeleteFunc(a.List, func(al component.Alarm) bool { return al.ID == id })
		if len(a.List) == 0 {
			alarms.DestroyImmediate(entity)
		}
	}
	return true
}

// Pending is the number of alarms scheduled and not yet fired or cancelled.
func (s *AlarmSystem) Pending() int { return len(s.owners) }

// Fired is the total number of alarm callbacks run.
func (s *AlarmSystem) Fired() uint64 { return s.fired }

func (s *AlarmSystem) Update(scene *ecs.Scene, dt float32) {
	s.frame++
	s.collect(scene, dt)
	for id, owner := range s.owners {
		if owner.seen != s.frame {
			delete(s.owners, id)
		}
	}
	slices.SortFunc(s.due, func(x, y dueAlarm) int {
		if c := cmp.Compare(x.at, y.at); c != 0 {
			return c
		}
		return cmp.Compare(x.id, y.id)
	})

	for _, d := range s.due {
		// cancelled, or the entity was destroyed by an earlier callback
		if owner, ok := s.owners[d.id]; !ok || owner.entity != d.entity || !scene.IsAlive(d.entity) {
			continue
		}
		if !d.repeating {
			delete(s.owners, d.id)
		}
		s.fired++
		s.named[d.callback](scene, d.entity)
	}
}

// collect advances every live entity's alarms by dt and fills s.due. The
// manager borrow ends before any callback runs.
func (s *AlarmSystem) collect(scene *ecs.Scene, dt float32) {
	s.due = s.due[:0]
	s.empty = s.empty[:0]

	alarms := ecs.Write[component.Alarms](scene, component.AlarmKey)
	defer alarms.Release()
	for entity, a := range alarms.IterMut() {
		if !scene.IsAlive(entity) {
			continue
		}
		keep := a.List[:0]
		for _, al := range a.List {
			if owner, ok := s.owners[al.ID]; ok {
				owner.seen = s.frame
			}
			al.Remaining -= dt
			if al.Remaining > 0 {
				keep = append(keep, al)
				continue
			}
			s.due = append(s.due, dueAlarm{
				id:        al.ID,
				entity:    entity,
				callback:  al.Callback,
				at:        dt + al.Remaining,
				repeating: al.Repeating,
			})
			if al.Repeating {
				al.Remaining = al.Interval
				keep = append(keep, al)
			}
		}
		a.List = keep
		if len(keep) == 0 {
			s.empty = append(s.empty, entity)
		}
	}
	for _, entity := range s.empty {
		alarms.DestroyImmediate(entity)
	}
}
