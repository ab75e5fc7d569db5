package execmocktest

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/ruffel/execmock"
)

// Standard categories for grouping tests.
const (
	CategoryCore    = "core"
	CategoryOptions = "options"
	CategoryErrors  = "errors"
)

// T is the minimal interface required for testify/assert and require.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Skipf(format string, args ...any)
	Context() context.Context
	TempDir() string
	Name() string
}

// TestCase defines a single behavioral contract requirement.
type TestCase struct {
	Category    string
	Name        string
	Description string
	Prereq      func(t T, r *execmock.Runner) (ok bool, reason string)
	Run         func(t T, r *execmock.Runner)
}

// ID returns the stable, globally unique contract identifier.
func (tc TestCase) ID() string {
	return fmt.Sprintf("%s/%s", tc.Category, tc.Name)
}

// AllContracts returns all test cases for the contract test suite.
func AllContracts() []TestCase {
	contracts := make([]TestCase, 0, 16)

	contracts = append(contracts, coreContracts()...)
	contracts = append(contracts, optionContracts()...)
	contracts = append(contracts, errorContracts()...)

	return contracts
}

// Verify runs every contract against a Runner built with opts.
// Each case gets its own Runner and queue.
func Verify(t *testing.T, opts ...execmock.RunnerOption) {
	t.Helper()

	for _, tc := range AllContracts() {
		t.Run(tc.ID(), func(t *testing.T) {
			r := New(t, opts...)

			if ok, reason := shellAvailable(r); !ok {
				t.Skipf("prereq unmet: %s", reason)
			}

			if tc.Prereq != nil {
				ok, reason := tc.Prereq(t, r)
				if !ok {
					t.Skipf("prereq unmet: %s", reason)
				}
			}

			tc.Run(t, r)
		})
	}
}

func shellAvailable(r *execmock.Runner) (bool, string) {
	shell := r.TargetOS().ShellCommand("").Cmd
	if _, err := exec.LookPath(shell); err != nil {
		return false, fmt.Sprintf("%s not found in PATH", shell)
	}

	return true, ""
}
