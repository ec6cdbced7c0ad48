package cache

// agent serializes all mutating cache operations (put/inc/dec/writeIndex)
// through a single goroutine, per §4.8's single-writer discipline and §5's
// ordering guarantee that index records are appended in binding order even
// when tasks complete out of order.
type agent struct {
	dbDir string
	idx   *indexWriter

	jobs chan job
	done chan struct{}
}

type job struct {
	fn   func() error
	resp chan error
}

func newAgent(dbDir string, idx *indexWriter) *agent {
	a := &agent{
		dbDir: dbDir,
		idx:   idx,
		jobs:  make(chan job),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *agent) run() {
	defer close(a.done)
	for j := range a.jobs {
		j.resp <- j.fn()
	}
}

// do submits fn to the writer goroutine and blocks for its result.
func (a *agent) do(fn func() error) error {
	resp := make(chan error, 1)
	a.jobs <- job{fn: fn, resp: resp}
	return <-resp
}

// Close stops the writer goroutine once all pending jobs have drained.
func (a *agent) Close() {
	close(a.jobs)
	<-a.done
}
