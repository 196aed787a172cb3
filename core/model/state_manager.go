// Package model provides shared state management for fitted estimators.
package model

import (
	"fmt"
	"sync"
)

// StateManager manages the fitted state of an estimator in a thread-safe
// manner. Estimators hold one by composition rather than embedding.
type StateManager struct {
	Fitted bool
	mu     sync.RWMutex

	// Dimensions of the training data
	NVariables int
	NSamples   int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{
		Fitted: false,
	}
}

// IsFitted returns whether the estimator has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the estimator as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset clears the fitted state and recorded dimensions.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NVariables = 0
	s.NSamples = 0
}

// SetDimensions records the number of variables and samples seen during fitting.
func (s *StateManager) SetDimensions(nVariables, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NVariables = nVariables
	s.NSamples = nSamples
}

// GetDimensions returns the number of variables and samples seen during fitting.
func (s *StateManager) GetDimensions() (nVariables, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NVariables, s.NSamples
}

// RequireFitted returns an error if the estimator has not been fitted.
func (s *StateManager) RequireFitted() error {
	if !s.IsFitted() {
		return fmt.Errorf("model has not been fitted yet. Call Fit() first")
	}
	return nil
}

// ModelState is a snapshot of an estimator's state, usable for debugging.
type ModelState struct {
	Fitted     bool `json:"fitted"`
	NVariables int  `json:"n_variables,omitempty"`
	NSamples   int  `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:     s.Fitted,
		NVariables: s.NVariables,
		NSamples:   s.NSamples,
	}
}

// SetState restores the state from a ModelState struct.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Fitted = state.Fitted
	s.NVariables = state.NVariables
	s.NSamples = state.NSamples
}
