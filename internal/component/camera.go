package component

import "fmt"

// Camera holds projection parameters. Rendering is out of scope; the engine
// stores cameras like any other component.
type Camera struct {
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32
}

func (c Camera) Validate() error {
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("camera clip planes near=%v far=%v", c.Near, c.Far)
	}
	return nil
}
