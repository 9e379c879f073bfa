package tracker

// Level is the ordinal activity scale derived from the trailing-hour count.
type Level uint8

const (
	Sedentary Level = iota // almost no movement
	Light                  // moving, but below the hourly goal
	AtGoal                 // at or above the goal
	High                   // at least twice the goal
)

func (l Level) String() string {
	switch l {
	case Sedentary:
		return "sedentary"
	case Light:
		return "light"
	case AtGoal:
		return "at_goal"
	case High:
		return "high"
	}
	return "unknown"
}

// Counts below this are sedentary regardless of the configured goal.
const sedentaryCeiling = 50

func classify(count, goal uint16) Level {
	switch {
	case count < sedentaryCeiling:
		return Sedentary
	case count < goal:
		return Light
	case uint32(count) < 2*uint32(goal):
		return AtGoal
	default:
		return High
	}
}
