package circuit

import "fmt"

// Func is a circuit-construction function. It builds operations and
// measurements against q and returns the measurements it declares as
// outputs: a *Measurement, a []*Measurement, or a []any of measurements.
type Func func(q *Queue, args ...float64) (any, error)

// Queue records operations and measurements in construction order.
//
// A Queue is the explicit recording context of one construction pass. It is
// handed to the construction function and closed by whoever opened it; a
// closed queue refuses further recording. A nil *Queue records nothing, so
// gates and measurements can also be built standalone.
type Queue struct {
	ops          []*Operation
	measurements []*Measurement
	closed       bool
	err          error
}

// NewQueue creates an open, empty queue.
func NewQueue() *Queue {
	return &Queue{
		ops:          make([]*Operation, 0, 16),
		measurements: make([]*Measurement, 0, 4),
	}
}

// Operations returns the queued operations in construction order.
func (q *Queue) Operations() []*Operation {
	return append([]*Operation(nil), q.ops...)
}

// Measurements returns the queued measurements in construction order.
func (q *Queue) Measurements() []*Measurement {
	return append([]*Measurement(nil), q.measurements...)
}

// Close stops recording. It is safe to call more than once.
func (q *Queue) Close() {
	if q != nil {
		q.closed = true
	}
}

// Closed reports whether the queue has been closed.
func (q *Queue) Closed() bool {
	return q != nil && q.closed
}

// Err returns the first structural violation seen while recording, such as
// an operation queued after a measurement.
func (q *Queue) Err() error {
	return q.err
}

func (q *Queue) appendOp(op *Operation) {
	if q == nil {
		return
	}
	if q.closed {
		panic(fmt.Sprintf("circuit: %s queued on a closed queue", op.name))
	}
	if len(q.measurements) > 0 && q.err == nil {
		q.err = fmt.Errorf("operation %s queued after measurement %s", op, q.measurements[len(q.measurements)-1])
	}
	q.ops = append(q.ops, op)
}

func (q *Queue) appendMeasurement(m *Measurement) {
	if q == nil {
		return
	}
	if q.closed {
		panic(fmt.Sprintf("circuit: %s queued on a closed queue", m))
	}
	q.measurements = append(q.measurements, m)
}
