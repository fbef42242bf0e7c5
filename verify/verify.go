// Package verify provides tools for checking programs and the interpreter
// against recorded expectations.
//
// It implements two complementary stages:
//
// 1. Static Lint (lint.go): a reachability walk over an image
//   - STRUCT checks: undecodable instructions, invalid operand words,
//     destinations that name no register
//   - FLOW checks: literal jump and call targets that leave the image
//
// 2. Scenario runs (funcsim.go): every scenario runs twice
//   - directly, by stepping a core in a loop
//   - through api.Driver on a serial akita engine
//
// Both runs must agree with each other and with the expectation of the
// scenario.
//
// # Scenario files
//
// Scenarios are YAML lists:
//
//	- name: increment
//	  program: [9, 32768, 32768, 1, 0]
//	  expect:
//	    status: halted
//	    reason: halt
//	    registers: {0: 1}
//
// A scenario either lists its program words or names a binary image with
// `image`, relative to the scenario file. `input` is fed to the in
// instruction. `fault` names the fault kind of a faulted run:
// invalid-opcode, invalid-operand, out-of-bounds, division-by-zero or
// stack-underflow.
package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/synvm/core"
	"github.com/sarchlab/synvm/program"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Undecodable or malformed instruction
	IssueFlow   IssueType = "FLOW"   // Control transfer out of the image
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType
	Addr    core.Word // Address of the instruction
	Message string
	Details map[string]interface{}
}

// Expectation is what a scenario run must produce.
type Expectation struct {
	Output    string            `yaml:"output"`
	Status    string            `yaml:"status"`
	Reason    string            `yaml:"reason"`
	Fault     string            `yaml:"fault"`
	Registers map[int]core.Word `yaml:"registers"`
}

// Scenario is a program, its input and the expected outcome.
type Scenario struct {
	Name    string      `yaml:"name"`
	Program []core.Word `yaml:"program"`
	Image   string      `yaml:"image"`
	Input   string      `yaml:"input"`
	Expect  Expectation `yaml:"expect"`

	// Lint additionally requires the image to pass the static checks.
	Lint bool `yaml:"lint"`
}

// LoadScenarios reads a YAML scenario file. Image paths are resolved
// relative to the file and loaded.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	var scenarios []Scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("parse scenarios %s: %w", path, err)
	}

	for i := range scenarios {
		s := &scenarios[i]

		if s.Name == "" {
			s.Name = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}

		if s.Image == "" {
			continue
		}

		if len(s.Program) > 0 {
			return nil, fmt.Errorf("scenario %s: both program and image given",
				s.Name)
		}

		imagePath := s.Image
		if !filepath.IsAbs(imagePath) {
			imagePath = filepath.Join(filepath.Dir(path), imagePath)
		}

		s.Program, err = program.LoadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}

	return scenarios, nil
}
