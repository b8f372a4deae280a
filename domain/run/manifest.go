package run

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gomcmc/domain/core"
	"gomcmc/domain/mcmc"
)

// Manifest is the immutable record of one summarization run: what was read,
// how it was summarized, and when. It is the truth source for replaying a
// run against the same input.
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Input       string         `json:"input"`
	Iterations  int            `json:"iterations"`
	Chains      int            `json:"chains"`
	Variables   int            `json:"variables"`
	KeepAll     bool           `json:"keep_all"`
	UpperBound  bool           `json:"upper_bound"`
	Transforms  []string       `json:"transforms,omitempty"`
	CodeVersion string         `json:"code_version"`
	Fingerprint core.InputHash `json:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewManifest records a run over the given array and options
func NewManifest(input string, arr mcmc.Array, keepAll, upperBound bool, transforms []string, codeVersion string) *Manifest {
	return &Manifest{
		RunID:       core.NewRunID(),
		Input:       input,
		Iterations:  arr.Iterations(),
		Chains:      arr.NumChains(),
		Variables:   arr.NumVariables(),
		KeepAll:     keepAll,
		UpperBound:  upperBound,
		Transforms:  transforms,
		CodeVersion: codeVersion,
		Fingerprint: fingerprint(input, arr, keepAll, upperBound, transforms),
		CreatedAt:   core.Now(),
	}
}

// fingerprint hashes the input description and every option that shapes the
// output table, so identical runs produce identical fingerprints.
func fingerprint(input string, arr mcmc.Array, keepAll, upperBound bool, transforms []string) core.InputHash {
	return core.ComputeInputHash(input,
		core.FormatOptionField("iterations", arr.Iterations()),
		core.FormatOptionField("chains", arr.NumChains()),
		core.FormatOptionField("variables", arr.NumVariables()),
		core.FormatOptionField("keep_all", strconv.FormatBool(keepAll)),
		core.FormatOptionField("upper_bound", strconv.FormatBool(upperBound)),
		core.FormatOptionField("transforms", strings.Join(transforms, ",")),
	)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if m.RunID.IsEmpty() {
		return core.NewValidationError("run_id", "cannot be empty")
	}
	if m.Input == "" {
		return core.NewValidationError("input", "cannot be empty")
	}
	if m.Iterations < 2 {
		return core.NewValidationError("iterations", "need at least 2")
	}
	if m.Chains < 1 {
		return core.NewValidationError("chains", "need at least 1")
	}
	if m.Variables < 1 {
		return core.NewValidationError("variables", "need at least 1")
	}
	if m.CodeVersion == "" {
		return core.NewValidationError("code_version", "cannot be empty")
	}
	return nil
}

// WriteFile persists the manifest as indented JSON
func (m *Manifest) WriteFile(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
