package mesh

// TessellatorBuilderOption is a functional option for configuring a Tessellator.
type TessellatorBuilderOption func(*tessellatorImpl)

// WithWorkers sets the worker pool size. One worker tessellates inline without a pool.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - TessellatorBuilderOption: functional option to set the worker count
func WithWorkers(n int) TessellatorBuilderOption {
	return func(t *tessellatorImpl) {
		t.workers = n
	}
}
