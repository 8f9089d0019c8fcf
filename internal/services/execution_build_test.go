package services

import (
  "encoding/json"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/peakform/peakform-backend/internal/types"
)

func testPrep() *types.ContestPrep {
  return &types.ContestPrep{
    ID:     uuid.New(),
    UserID: uuid.New(),
    Name:   "summer classic",
    MacroPlan: datatypes.NewJSONType(types.MacroPlan{
      HighCalories: 2800,
      LowCalories:  2200,
      ProteinG:     200,
      CarbsG:       250,
      FatG:         60,
      HighDays:     []int{1, 4}, // Monday, Thursday
    }),
    Supplements: datatypes.NewJSONType([]types.SupplementEntry{
      {Name: "creatine", Dose: "5g", Timing: "morning"},
      {Name: "omega-3", Dose: "2g", Timing: "with meals"},
    }),
    CardioPlan: datatypes.NewJSONType(types.CardioPlan{
      Minutes:  30,
      Modality: "incline walk",
    }),
  }
}

func testProtocol(prep *types.ContestPrep, protocolType types.ProtocolType) *types.AutomatedProtocol {
  return &types.AutomatedProtocol{
    ID:            uuid.New(),
    ContestPrepID: prep.ID,
    Type:          protocolType,
    IsActive:      true,
  }
}

func TestBuildInstances_CalorieCyclingHighDay(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolCalorieCycling)

  monday := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
  instances, err := buildInstances(protocol, prep, monday)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(instances) != 1 {
    t.Fatalf("expected 1 instance, got %d", len(instances))
  }
  var payload types.CalorieCyclingPayload
  if err := json.Unmarshal(instances[0].Payload, &payload); err != nil {
    t.Fatalf("payload unmarshal: %v", err)
  }
  if payload.DayType != "high" || payload.Calories != 2800 {
    t.Fatalf("expected high/2800, got %s/%d", payload.DayType, payload.Calories)
  }
}

func TestBuildInstances_CalorieCyclingLowDay(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolCalorieCycling)

  tuesday := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
  instances, err := buildInstances(protocol, prep, tuesday)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  var payload types.CalorieCyclingPayload
  if err := json.Unmarshal(instances[0].Payload, &payload); err != nil {
    t.Fatalf("payload unmarshal: %v", err)
  }
  if payload.DayType != "low" || payload.Calories != 2200 {
    t.Fatalf("expected low/2200, got %s/%d", payload.DayType, payload.Calories)
  }
}

func TestBuildInstances_SupplementFanOut(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolSupplementTiming)

  day := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
  instances, err := buildInstances(protocol, prep, day)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(instances) != 2 {
    t.Fatalf("expected one instance per supplement, got %d", len(instances))
  }
  slots := map[string]bool{}
  for _, instance := range instances {
    slots[instance.Slot] = true
    if instance.Category != types.ProtocolSupplementTiming {
      t.Fatalf("unexpected category %q", instance.Category)
    }
  }
  if !slots["creatine"] || !slots["omega-3"] {
    t.Fatalf("expected slots keyed by supplement name, got %v", slots)
  }
}

func TestBuildInstances_CardioDefaults(t *testing.T) {
  prep := testPrep()
  prep.CardioPlan = datatypes.NewJSONType(types.CardioPlan{})
  protocol := testProtocol(prep, types.ProtocolCardioProgramming)

  instances, err := buildInstances(protocol, prep, time.Now().UTC())
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  var payload types.CardioPayload
  if err := json.Unmarshal(instances[0].Payload, &payload); err != nil {
    t.Fatalf("payload unmarshal: %v", err)
  }
  if payload.Minutes != 20 || payload.Intensity != "steady" {
    t.Fatalf("expected 20 min steady fallback, got %d %q", payload.Minutes, payload.Intensity)
  }
}

func TestBuildInstances_ProgressPhotosPoses(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolProgressPhotos)

  instances, err := buildInstances(protocol, prep, time.Now().UTC())
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  var payload types.ProgressPhotosPayload
  if err := json.Unmarshal(instances[0].Payload, &payload); err != nil {
    t.Fatalf("payload unmarshal: %v", err)
  }
  if len(payload.Poses) != 3 {
    t.Fatalf("expected 3 poses, got %v", payload.Poses)
  }
}

func TestBuildInstances_NormalizesDate(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolMacroAdjustment)

  stamp := time.Date(2025, time.June, 3, 17, 30, 0, 0, time.UTC)
  instances, err := buildInstances(protocol, prep, stamp)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  want := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
  if !instances[0].Date.Equal(want) {
    t.Fatalf("expected date truncated to %v, got %v", want, instances[0].Date)
  }
}

func TestBuildInstances_UnknownType(t *testing.T) {
  prep := testPrep()
  protocol := testProtocol(prep, types.ProtocolType("mystery"))

  if _, err := buildInstances(protocol, prep, time.Now().UTC()); err == nil {
    t.Fatalf("expected error for unknown protocol type")
  }
}
