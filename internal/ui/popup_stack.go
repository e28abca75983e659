package ui

// PopupCloser closes a popup on the model and reports whether it was open
type PopupCloser func(*Model) bool

// PopupStack tracks open popups so Esc closes the topmost one first
type PopupStack struct {
	closers []PopupCloser
	names   []string
}

// NewPopupStack creates a new popup stack
func NewPopupStack() *PopupStack {
	return &PopupStack{}
}

// Push adds a closer to the stack
func (s *PopupStack) Push(name string, closer PopupCloser) {
	s.closers = append(s.closers, closer)
	s.names = append(s.names, name)
}

// Pop removes and returns the topmost closer, returns nil if empty
func (s *PopupStack) Pop() PopupCloser {
	if len(s.closers) == 0 {
		return nil
	}
	closer := s.closers[len(s.closers)-1]
	s.closers = s.closers[:len(s.closers)-1]
	s.names = s.names[:len(s.names)-1]
	return closer
}

// CloseTop closes the topmost popup and removes it from the stack
func (s *PopupStack) CloseTop(m *Model) bool {
	closer := s.Pop()
	if closer == nil {
		return false
	}
	return closer(m)
}

// CloseAll closes every open popup
func (s *PopupStack) CloseAll(m *Model) {
	for !s.IsEmpty() {
		s.CloseTop(m)
	}
}

// IsEmpty returns true if no popups are open
func (s *PopupStack) IsEmpty() bool {
	return len(s.closers) == 0
}

// Len returns the number of open popups
func (s *PopupStack) Len() int {
	return len(s.closers)
}

// TopName returns the name of the topmost popup
func (s *PopupStack) TopName() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[len(s.names)-1]
}
