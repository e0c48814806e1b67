package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of operations plus assertions on the
// resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Space is the organic space of the director. Default "home".
	Space string `yaml:"space,omitempty"`

	// DuplicatePolicy is keep_first (default) or reject_conflict.
	DuplicatePolicy string `yaml:"duplicate_policy,omitempty"`

	// SpaceIDs are handed out in order by new_space steps.
	SpaceIDs []string `yaml:"space_ids,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation. Which fields are required depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// Space, when set, runs the step as a guest-space operation.
	Space string `yaml:"space,omitempty"`

	Table      string   `yaml:"table,omitempty"`
	Tables     []string `yaml:"tables,omitempty"`
	ID         string   `yaml:"id,omitempty"`
	ID1        string   `yaml:"id1,omitempty"`
	ID2        string   `yaml:"id2,omitempty"`
	Vertex     string   `yaml:"vertex,omitempty"`
	Where      string   `yaml:"where,omitempty"`
	Decoration string   `yaml:"decoration,omitempty"`

	// Expect optionally checks the step's output.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks a step's output. Unset fields are not checked.
type Expect struct {
	// IDs is the exact output id list (triple ids for table-valued ops).
	IDs []string `yaml:"ids,omitempty"`

	// Count is the number of output items.
	Count *int `yaml:"count,omitempty"`

	// Error is a substring the step's error must contain.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "table_ids": triple ids of a table equal IDs
	// - "table_count": a table holds Count distinct triples
	// - "effective_space": the director's active space equals Expect
	// - "neighbors": neighbor ids of Vertex in Table equal IDs
	Type string `yaml:"type"`

	// Space reads Table in a guest space.
	Space  string   `yaml:"space,omitempty"`
	Table  string   `yaml:"table,omitempty"`
	Vertex string   `yaml:"vertex,omitempty"`
	IDs    []string `yaml:"ids,omitempty"`
	Count  int      `yaml:"count,omitempty"`
	Expect string   `yaml:"expect,omitempty"`
}

// Step op constants.
const (
	OpCreate          = "create"
	OpAdd             = "add"
	OpNode            = "node"
	OpClear           = "clear"
	OpTriples         = "triples"
	OpFlatten         = "flatten"
	OpNeighbors       = "neighbors"
	OpSelect          = "select"
	OpExceptDecorated = "except_decorated"
	OpNewSpace        = "new_space"
)

// Assertion type constants.
const (
	AssertTableIDs       = "table_ids"
	AssertTableCount     = "table_count"
	AssertEffectiveSpace = "effective_space"
	AssertNeighbors      = "neighbors"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	missing := func(field string) error {
		return fmt.Errorf("steps[%d]: %s requires %s", index, s.Op, field)
	}

	switch s.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpCreate:
		if s.ID1 == "" || s.ID2 == "" {
			return missing("id1 and id2")
		}
	case OpAdd:
		if s.Table == "" || s.ID == "" || s.ID1 == "" || s.ID2 == "" {
			return missing("table, id, id1 and id2")
		}
	case OpNode:
		if s.ID == "" {
			return missing("id")
		}
	case OpClear, OpTriples:
		if s.Table == "" {
			return missing("table")
		}
	case OpFlatten:
		if len(s.Tables) == 0 {
			return missing("tables")
		}
	case OpNeighbors:
		if s.Table == "" || s.Vertex == "" {
			return missing("table and vertex")
		}
	case OpSelect:
		if s.Table == "" || s.Where == "" {
			return missing("table and where")
		}
	case OpExceptDecorated:
		if s.Table == "" || s.Vertex == "" || s.Decoration == "" {
			return missing("table, vertex and decoration")
		}
	case OpNewSpace:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTableIDs, AssertTableCount:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertEffectiveSpace:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for effective_space", index)
		}
	case AssertNeighbors:
		if a.Table == "" || a.Vertex == "" {
			return fmt.Errorf("assertions[%d]: table and vertex are required for neighbors", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
