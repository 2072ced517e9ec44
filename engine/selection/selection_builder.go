package selection

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*manager)

// WithOnChange registers the callback fired after every Click with the new selection.
// It runs on the clicking goroutine after the manager's lock is released.
//
// Parameters:
//   - cb: the callback
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithOnChange(cb func(ids []int)) ManagerBuilderOption {
	return func(m *manager) {
		m.onChange = cb
	}
}

// WithInitialSelection seeds the manager at construction.
//
// Parameters:
//   - ids: the initial selection
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithInitialSelection(ids ...int) ManagerBuilderOption {
	return func(m *manager) {
		m.selected = append([]int{}, ids...)
	}
}
