package game

// Run
const (
	InitialLives = 5
	InitialWave  = 1
)

// Formation movement
const (
	FormationDrop = 30.0  // Units dropped on every reversal
	BreachMargin  = 100.0 // Aliens at or below H - BreachMargin breach
)

// Formation layout
const (
	FormationWidthFraction = 0.8  // Share of the surface width the formation aims to fill
	MinColumnSpacing       = 70.0 // Center-to-center, columns
	RowSpacing             = 70.0 // Center-to-center, rows
	FormationTop           = 50.0 // Top edge of the first row
	BaseColumns            = 8
	MaxColumns             = 12
	BaseRows               = 2
	MaxRows                = 5
)

// Difficulty
const (
	BaseAlienSpeed    = 2.0
	AlienSpeedPerWave = 0.5
)

// Scoring: points grow with the distance between the alien and the bottom.
const (
	MinAlienPoints = 10
	PointsBand     = 50.0
	PointsPerBand  = 10
)

// DefaultPipelineRepeat is how many movement and collision passes run per tick.
const DefaultPipelineRepeat = 1
