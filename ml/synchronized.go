package ml

import "sync"

// Synchronized serializes every call to the wrapped Model so it can be shared between
// goroutines. A Predict never observes a half applied Train.
type Synchronized struct {
	mu    sync.Mutex
	model Model
}

// NewSynchronized wraps model.
func NewSynchronized(model Model) *Synchronized {
	return &Synchronized{model: model}
}

// Train calls the wrapped Train while holding the lock.
func (s *Synchronized) Train(inputs, outputs [][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.Train(inputs, outputs)
}

// Predict calls the wrapped Predict while holding the lock.
func (s *Synchronized) Predict(input []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Predict(input)
}

// Do runs fn with exclusive access to the wrapped model, for calls outside the Model interface
// such as TemplateRecognizer.Nearest.
func (s *Synchronized) Do(fn func(Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}
