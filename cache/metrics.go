package cache

// NoopMetrics is the default Metrics implementation; it does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                {}
func (NoopMetrics) Miss()               {}
func (NoopMetrics) Put(PutOutcome)      {}
func (NoopMetrics) Remove()             {}
func (NoopMetrics) Resident(int, int64) {}

var _ Metrics = NoopMetrics{}
