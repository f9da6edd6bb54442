package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
	"google.golang.org/grpc/codes"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func startServer(t *testing.T) *Client {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	svc := NewService(100, 1000)
	svc.NewRNG = func() roll.RandomSource { return roll.NewSeededRNG(1) }
	srv := newServer(listener, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := Dial(srv.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("server did not stop")
		}
	})

	hctx, hcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer hcancel()
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(hctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil || resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("health: %v %v", resp.GetStatus(), err)
	}
	return NewClient(conn)
}

func settingsRequestFor(t *testing.T, s settings.Settings) *structpb.Struct {
	t.Helper()
	in, err := toStruct(map[string]any{"settings": s})
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func TestFlagStringOverGRPC(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := c.FlagString(ctx, settingsRequestFor(t, settings.RacePreset()))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.GetFields()["flag_string"].GetStringValue(); got != "st.ngzpte" {
		t.Fatalf("flag string = %q", got)
	}
}

func TestValidateOverGRPC(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := c.Validate(ctx, settingsRequestFor(t, settings.RacePreset()))
	if err != nil || !out.GetFields()["valid"].GetBoolValue() {
		t.Fatalf("race preset should validate: %v %v", out, err)
	}

	s := settings.RacePreset()
	s.Bucket.NeededFragments = 99
	out, err = c.Validate(ctx, settingsRequestFor(t, s))
	if err != nil {
		t.Fatal(err)
	}
	f := out.GetFields()
	if f["valid"].GetBoolValue() || f["category"].GetStringValue() != string(settings.CategoryBuckets) {
		t.Fatalf("unexpected response %v", out)
	}
}

func TestPresetOverGRPC(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in, _ := structpb.NewStruct(map[string]any{"name": "hard"})
	out, err := c.Preset(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.GetFields()["flag_string"].GetStringValue(); got != "st.hgbctex" {
		t.Fatalf("flag string = %q", got)
	}

	in, _ = structpb.NewStruct(map[string]any{"name": "nope"})
	_, err = c.Preset(ctx, in)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestPreviewOverGRPC(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := settings.Default()
	s.GameFlags = settings.Mystery
	in := settingsRequestFor(t, s)
	in.Fields["trials"] = structpb.NewNumberValue(50)
	out, err := c.Preview(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.GetFields()["trials"].GetNumberValue(); got != 50 {
		t.Fatalf("trials = %v", got)
	}

	s.Mystery.GameModeFreqs = map[settings.GameMode]int{settings.ModeStandard: 0}
	_, err = c.Preview(ctx, settingsRequestFor(t, s))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
}

func TestResolveKeepsDefaultsForOmittedFields(t *testing.T) {
	svc := NewService(10, 1000)
	in, err := FromJSON([]byte(`{"settings": {"mode": "Lost worlds", "flags": ["BOSS_SCALE"]}}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.Resolve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	fs := out.GetFields()["flag_string"].GetStringValue()
	if fs == "" || fs[:3] != "lw." {
		t.Fatalf("flag string = %q", fs)
	}
	names := out.GetFields()["settings"].GetStructValue().GetFields()["char_names"].GetListValue().GetValues()
	if len(names) != 8 || names[0].GetStringValue() != "Crono" {
		t.Fatalf("char names lost: %v", names)
	}
}

func TestBadRequestIsInvalidArgument(t *testing.T) {
	svc := NewService(10, 1000)
	in, _ := structpb.NewStruct(map[string]any{"settings": map[string]any{"mode": "Moon"}})
	_, err := svc.FlagString(context.Background(), in)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
}

func TestPreviewTrialsCap(t *testing.T) {
	svc := NewService(10, 1000)
	svc.NewRNG = func() roll.RandomSource { return roll.NewSeededRNG(5) }

	over, err := FromJSON([]byte(`{"trials": 1001}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Preview(context.Background(), over); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument above the cap, got %v", err)
	}

	at, err := FromJSON([]byte(`{"trials": 1000}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.Preview(context.Background(), at)
	if err != nil {
		t.Fatalf("preview at the cap: %v", err)
	}
	if n := out.GetFields()["trials"].GetNumberValue(); n != 1000 {
		t.Fatalf("trials = %v", n)
	}
}
