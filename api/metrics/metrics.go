/* metrics.go
 * Contains the prometheus counters recorded by the api package. Register must be called once at start up before
 * the /metrics endpoint is served
 * Authors: Zachary Bower
 */

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_transitions_total", Help: "Team lifecycle transitions attempted"},
		[]string{"trigger", "result"},
	)
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_submissions_total", Help: "Round submissions attempted"},
		[]string{"round", "result"},
	)
	Membership = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_membership_ops_total", Help: "Team create, invite and remove operations"},
		[]string{"op", "result"},
	)
)

var once sync.Once

// Register adds the counters to the default registry. Safe to call more than once
func Register() {
	once.Do(func() {
		prometheus.MustRegister(Transitions, Submissions, Membership)
	})
}

// ResultOf maps an operation error to a result label. Errors the caller is expected to handle (validation,
// permission, etc) count as rejected, anything else as error
func ResultOf(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return ResultOK
	case rejected(err):
		return ResultRejected
	default:
		return ResultError
	}
}
