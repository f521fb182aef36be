package equivalence

// Level is the classification a comparison resolves to.
type Level string

const (
	LevelTotal      Level = "total"
	LevelFunctional Level = "functional"
	LevelPartial    Level = "partial"
	LevelNoDirect   Level = "no_direct"
)

// Label returns the long form used in reports.
func (l Level) Label() string {
	switch l {
	case LevelTotal:
		return "Total Equivalency"
	case LevelFunctional:
		return "Functional Equivalency"
	case LevelPartial:
		return "Partial Equivalency"
	case LevelNoDirect:
		return "No Direct Equivalency"
	default:
		return string(l)
	}
}

// EquivalenceResult is the derived output record for one comparison.
// It is never mutated after construction; repeated calls with the same
// inputs produce identical records, trace included.
type EquivalenceResult struct {
	DistanceScore      float64  `json:"distance_score" yaml:"distance_score"`
	Level              Level    `json:"level" yaml:"level"`
	ConfidenceInterval string   `json:"confidence_interval" yaml:"confidence_interval"`
	Rationale          string   `json:"rationale" yaml:"rationale"`
	StepReached        int      `json:"step_reached" yaml:"step_reached"`
	Trace              []string `json:"trace,omitempty" yaml:"trace,omitempty"`
}
