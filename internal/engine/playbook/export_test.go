package playbook

import "github.com/pregate/pregate/internal/core/domain"

// Export functions for testing
var ParseGuard = parseGuard

// Eval exposes the private eval method for testing.
func (g *guard) Eval(vars map[string]domain.TaskResult) (bool, error) {
	return g.eval(vars)
}
