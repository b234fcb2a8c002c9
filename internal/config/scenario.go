package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"epigrid/internal/domain/epidemic"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const schemaURL = "https://epigrid.local/schemas/scenario.schema.json"

//go:embed scenario.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Scenario is the user-facing run configuration. It decodes from YAML or JSON.
type Scenario struct {
	GridWidth         int      `yaml:"grid_width" json:"grid_width"`
	GridHeight        int      `yaml:"grid_height" json:"grid_height"`
	SusceptibleAgents int      `yaml:"susceptible_agents" json:"susceptible_agents"`
	InfectedAgents    int      `yaml:"infected_agents" json:"infected_agents"`
	ProbInf           float64  `yaml:"prob_inf" json:"prob_inf"`
	ProbRec           float64  `yaml:"prob_rec" json:"prob_rec"`
	ProbHealthy       float64  `yaml:"prob_healthy" json:"prob_healthy"`
	ProbElderly       float64  `yaml:"prob_elderly" json:"prob_elderly"`
	ProbDocility      float64  `yaml:"prob_docility" json:"prob_docility"`
	Movement          string   `yaml:"movement" json:"movement"`
	Strategies        []string `yaml:"strategies" json:"strategies"`
	Seed              int64    `yaml:"seed" json:"seed"`
	Ticks             int      `yaml:"ticks" json:"ticks"`
}

func Default() Scenario {
	return Scenario{
		GridWidth:         50,
		GridHeight:        50,
		SusceptibleAgents: 500,
		InfectedAgents:    10,
		ProbInf:           0.3,
		ProbRec:           0.8,
		ProbHealthy:       0.8,
		ProbElderly:       0.2,
		ProbDocility:      0.7,
		Movement:          string(epidemic.ScenarioRandom),
		Ticks:             720,
	}
}

func Load(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	s, err := Parse(raw)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON document over the defaults and validates it.
// Keys left out keep their default value.
func Parse(raw []byte) (Scenario, error) {
	return ParseOver(Default(), raw)
}

// ParseOver is Parse with base in place of the defaults.
func ParseOver(base Scenario, raw []byte) (Scenario, error) {
	s := base
	s.Strategies = append([]string(nil), base.Strategies...)
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, s.Validate()
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if doc == nil {
		return s, s.Validate()
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := validateDocument(normalized); err != nil {
		return Scenario{}, err
	}
	if err := json.Unmarshal(normalized, &s); err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return s, s.Validate()
}

func validateDocument(normalized []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load scenario schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks the constraints the schema cannot express.
func (s Scenario) Validate() error {
	if s.GridWidth <= 0 || s.GridHeight <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1", ErrInvalidScenario)
	}
	if s.SusceptibleAgents < 0 || s.InfectedAgents < 0 {
		return fmt.Errorf("%w: agent counts must not be negative", ErrInvalidScenario)
	}
	if cells := int64(s.GridWidth) * int64(s.GridHeight); int64(s.SusceptibleAgents)+int64(s.InfectedAgents) > cells {
		return fmt.Errorf("%w: %d agents do not fit a %dx%d grid", ErrInvalidScenario,
			s.SusceptibleAgents+s.InfectedAgents, s.GridWidth, s.GridHeight)
	}
	if _, err := s.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy resolves the movement scenario and strategy labels.
func (s Scenario) Policy() (epidemic.Policy, error) {
	movement, err := epidemic.ParseScenario(s.Movement)
	if err != nil {
		return epidemic.Policy{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	strategies := make([]epidemic.Strategy, 0, len(s.Strategies))
	for _, raw := range s.Strategies {
		st, err := epidemic.ParseStrategy(raw)
		if err != nil {
			return epidemic.Policy{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		strategies = append(strategies, st)
	}
	p := epidemic.Policy{
		MeanInfectionProb: s.ProbInf,
		MeanRecoveryProb:  s.ProbRec,
		ProbHealthy:       s.ProbHealthy,
		ProbElderly:       s.ProbElderly,
		ProbDocility:      s.ProbDocility,
		Scenario:          movement,
	}
	p, err = p.WithStrategies(strategies...)
	if err != nil {
		return epidemic.Policy{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return p, nil
}

func (s Scenario) Population() epidemic.Population {
	return epidemic.Population{Susceptible: s.SusceptibleAgents, Infected: s.InfectedAgents}
}
