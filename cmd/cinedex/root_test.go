package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "sync", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q: got %v, %v", name, cmd, err)
		}
	}

	syncCmd, _, _ := root.Find([]string{"sync"})
	if syncCmd.Flags().Lookup("once") == nil {
		t.Error("sync must accept --once")
	}
	if syncCmd.Flags().Lookup("kind") == nil {
		t.Error("sync must accept --kind")
	}
}

func TestParseKinds(t *testing.T) {
	all, err := parseKinds(nil)
	if err != nil || !slices.Equal(all, kind.SyncOrder()) {
		t.Errorf("no names = %v, %v; want every kind", all, err)
	}

	got, err := parseKinds([]string{"film_work", "genre", "genre"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []kind.Kind{kind.Genre, kind.Film}) {
		t.Errorf("kinds = %v, want sync order [genre film_work]", got)
	}

	if _, err := parseKinds([]string{"studio"}); err == nil || !strings.Contains(err.Error(), "--kind") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSyncCmd_KindRequiresOnce(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"sync", "--kind", "genre"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--once") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "cinedex dev") {
		t.Errorf("output = %q", out.String())
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestMetricsMux_Health(t *testing.T) {
	health := healthuc.New(zap.NewNop(),
		healthuc.Check{Name: "postgres", Pinger: stubPinger{}},
		healthuc.Check{Name: "redis", Pinger: stubPinger{err: errors.New("down")}},
	)

	rr := httptest.NewRecorder()
	metricsMux(health).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	var report healthuc.Report
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != healthuc.Degraded || report.Checks["redis"] != healthuc.CheckError {
		t.Errorf("report = %+v", report)
	}
}

func TestMetricsMux_Metrics(t *testing.T) {
	rr := httptest.NewRecorder()
	metricsMux(healthuc.New(zap.NewNop())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
