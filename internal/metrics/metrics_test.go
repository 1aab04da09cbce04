package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTick(t *testing.T) {
	m := NewCollector()
	m.RecordTick(0.1, time.Millisecond)
	m.RecordTick(-2, time.Millisecond)

	if got := testutil.ToFloat64(m.ticks); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.speed); got != -2 {
		t.Errorf("speed = %v, want -2", got)
	}
}

func TestRecordAction(t *testing.T) {
	m := NewCollector()
	m.RecordAction("forward", 2)
	m.RecordAction("forward", 2)
	m.RecordAction("toggle-pause", 0)

	if got := testutil.ToFloat64(m.actions.WithLabelValues("forward")); got != 2 {
		t.Errorf("forward = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.actions.WithLabelValues("toggle-pause")); got != 1 {
		t.Errorf("toggle-pause = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.speed); got != 0 {
		t.Errorf("speed = %v, want 0", got)
	}
}

func TestRecordOutcomes(t *testing.T) {
	m := NewCollector()
	m.SetBodies("planet", 8)
	m.SetBodies("asteroid", 1500)
	m.RecordAssistant("ok", time.Second)
	m.RecordAssistant("cached", 0)
	m.RecordDataLoad(nil)
	m.RecordDataLoad(errors.New("boom"))
	m.SetStreamClients(3)
	m.RecordStreamDrop()

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"asteroids", testutil.ToFloat64(m.bodies.WithLabelValues("asteroid")), 1500},
		{"assistant ok", testutil.ToFloat64(m.assistantReqs.WithLabelValues("ok")), 1},
		{"assistant cached", testutil.ToFloat64(m.assistantReqs.WithLabelValues("cached")), 1},
		{"load error", testutil.ToFloat64(m.dataLoad.WithLabelValues("error")), 1},
		{"stream clients", testutil.ToFloat64(m.streamClients), 3},
		{"stream dropped", testutil.ToFloat64(m.streamDropped), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestNilCollector(t *testing.T) {
	var m *Collector
	m.RecordTick(1, time.Millisecond)
	m.RecordAction("forward", 2)
	m.SetBodies("planet", 8)
	m.RecordAssistant("ok", time.Second)
	m.SetStreamClients(1)
	m.RecordStreamDrop()
	m.RecordDataLoad(nil)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewCollector()
	m.RecordTick(0.1, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"orrery_ticks_total 1", "orrery_speed_multiplier 0.1"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
