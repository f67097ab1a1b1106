package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/venues/:id", "404"))
	RecordHTTPRequest("GET", "/venues/:id", "404", 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/venues/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordPersistenceFailure(t *testing.T) {
	RecordPersistenceFailure("show", "create")
	RecordPersistenceFailure("show", "create")
	assert.GreaterOrEqual(t, testutil.ToFloat64(PersistenceFailures.WithLabelValues("show", "create")), 2.0)
}
