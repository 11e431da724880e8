package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Names under which matchers claim declarations in the optimization context.
const (
	ClaimBodyMapper       = "body-mapper"
	ClaimFieldDeclaration = "field-declaration"
)

// OptimizationAware is embedded by matchers that read or record facts in the
// optimization context of the current pass.
type OptimizationAware struct {
	optimization *optimization.Context
	rec          recorder
}

func newOptimizationAware(ctx *optimization.Context, opts []Option) OptimizationAware {
	s := newSettings(opts)

	return OptimizationAware{optimization: ctx, rec: recorder{logger: s.logger}}
}

// Optimization returns the context of the current pass.
func (base OptimizationAware) Optimization() *optimization.Context {
	return base.optimization
}

// isClaimed reports whether another matcher already attributed n.
func (base OptimizationAware) isClaimed(n *tree.Node) bool {
	_, claimed := base.optimization.ClaimedBy(n)

	return claimed
}
