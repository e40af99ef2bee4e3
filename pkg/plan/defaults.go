package plan

// Defaults are the dimensions used when a plan element leaves one out.
type Defaults struct {
	WallHeight    float64 `json:"wallHeight"`
	WallThickness float64 `json:"wallThickness"`
	DoorWidth     float64 `json:"doorWidth"`
	DoorHeight    float64 `json:"doorHeight"`
	WindowWidth   float64 `json:"windowWidth"`
	WindowHeight  float64 `json:"windowHeight"`
	WindowSill    float64 `json:"windowSill"`
	CeilingHeight float64 `json:"ceilingHeight"`
	MinRoomArea   float64 `json:"minRoomArea"`
}

// DefaultDefaults returns the stock dimensions in millimetres.
func DefaultDefaults() Defaults {
	return Defaults{
		WallHeight:    2800,
		WallThickness: 120,
		DoorWidth:     900,
		DoorHeight:    2100,
		WindowWidth:   1200,
		WindowHeight:  1200,
		WindowSill:    900,
		CeilingHeight: 2800,
		MinRoomArea:   0.5,
	}
}

// Level returns a ground-floor level using d.
func (d Defaults) Level() Level {
	return Level{CeilingHeight: d.CeilingHeight, MinRoomArea: d.MinRoomArea}
}
