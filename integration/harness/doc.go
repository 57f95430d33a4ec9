// Package harness builds the neopir binary once per test run and executes it
// against throwaway workspaces with a hermetic environment.
package harness
