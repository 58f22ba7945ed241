/* metrics_test.go
 * Contains unit tests for metrics.go
 * Authors: Zachary Bower
 */

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Twice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestResultOf(t *testing.T) {
	rejected := func(err error) bool { return err.Error() == "bad input" }

	assert.Equal(t, ResultOK, ResultOf(nil, rejected))
	assert.Equal(t, ResultRejected, ResultOf(errors.New("bad input"), rejected))
	assert.Equal(t, ResultError, ResultOf(errors.New("db down"), rejected))
}

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(Transitions.WithLabelValues("admin_advance", ResultOK))
	Transitions.WithLabelValues("admin_advance", ResultOK).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Transitions.WithLabelValues("admin_advance", ResultOK)))
}
