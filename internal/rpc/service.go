package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xtding233/jetsoftime/internal/mystery"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service answers settings queries without touching any ROM.
type Service struct {
	// PreviewTrials is used when a preview request names no trial count.
	PreviewTrials int
	// MaxTrials rejects larger previews. Zero means no limit.
	MaxTrials int
	// NewRNG returns the source for one preview. nil uses roll.DefaultRNG.
	NewRNG func() roll.RandomSource
}

// NewService returns a Service with the given default and largest preview
// sizes.
func NewService(previewTrials, maxTrials int) *Service {
	return &Service{PreviewTrials: previewTrials, MaxTrials: maxTrials}
}

type settingsRequest struct {
	Settings *json.RawMessage `json:"settings"`
}

type presetRequest struct {
	Name string `json:"name"`
}

type previewRequest struct {
	Settings *json.RawMessage `json:"settings"`
	Trials   int              `json:"trials"`
}

// FlagString returns {"flag_string": ...} for the request settings.
func (s *Service) FlagString(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := requestSettings(in)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"flag_string": cfg.FlagString()})
}

// Validate returns {"valid": true} or the first problem found. A problem is
// a normal response, not an RPC error.
func (s *Service) Validate(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := requestSettings(in)
	if err != nil {
		return nil, err
	}
	return toStruct(validationBody(settings.Validate(cfg)))
}

// Resolve applies flag forcing and returns the settings with their flag
// string.
func (s *Service) Resolve(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := requestSettings(in)
	if err != nil {
		return nil, err
	}
	cfg = cfg.Resolve()
	return toStruct(map[string]any{"settings": cfg, "flag_string": cfg.FlagString()})
}

// Preset returns the named preset.
func (s *Service) Preset(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req presetRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	cfg, err := settings.Preset(req.Name)
	if err != nil {
		return nil, status.Errorf(codes.NotFound, "%v", err)
	}
	return toStruct(map[string]any{"settings": cfg, "flag_string": cfg.FlagString()})
}

// Preview rolls the mystery settings repeatedly and reports the observed
// frequencies.
func (s *Service) Preview(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req previewRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	cfg, err := settingsFrom(req.Settings)
	if err != nil {
		return nil, err
	}
	trials := req.Trials
	if trials <= 0 {
		trials = s.PreviewTrials
	}
	if trials <= 0 {
		return nil, status.Error(codes.InvalidArgument, "trials must be positive")
	}
	if s.MaxTrials > 0 && trials > s.MaxTrials {
		return nil, status.Errorf(codes.InvalidArgument, "trials %d exceed the maximum %d", trials, s.MaxTrials)
	}
	rng := roll.DefaultRNG()
	if s.NewRNG != nil {
		rng = s.NewRNG()
	}
	rep, err := mystery.Preview(cfg, trials, rng)
	if err != nil {
		return nil, validationStatus(err)
	}
	return toStruct(rep)
}

// validationBody is the JSON form of a Validate result.
func validationBody(err error) map[string]any {
	if err == nil {
		return map[string]any{"valid": true}
	}
	body := map[string]any{"valid": false, "message": err.Error()}
	var ve *settings.ValidationError
	if errors.As(err, &ve) {
		body["category"] = string(ve.Category)
		body["message"] = ve.Message
		if len(ve.Items) > 0 {
			body["items"] = ve.Items
		}
	}
	return body
}

func validationStatus(err error) error {
	var ve *settings.ValidationError
	if errors.As(err, &ve) {
		return status.Errorf(codes.InvalidArgument, "%s: %s", ve.Category, ve.Message)
	}
	return status.Errorf(codes.Internal, "%v", err)
}

func requestSettings(in *structpb.Struct) (settings.Settings, error) {
	var req settingsRequest
	if err := decodeStruct(in, &req); err != nil {
		return settings.Settings{}, err
	}
	return settingsFrom(req.Settings)
}

// settingsFrom decodes raw onto the defaults, so omitted fields keep their
// default values.
func settingsFrom(raw *json.RawMessage) (settings.Settings, error) {
	cfg := settings.Default()
	if raw == nil {
		return cfg, nil
	}
	if err := json.Unmarshal(*raw, &cfg); err != nil {
		return settings.Settings{}, status.Errorf(codes.InvalidArgument, "decode settings: %v", err)
	}
	return cfg, nil
}

func decodeStruct(in *structpb.Struct, target any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// FromJSON builds a request message from a JSON document.
func FromJSON(b []byte) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return out, nil
}
