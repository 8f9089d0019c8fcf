package services

import (
  "encoding/json"
  "fmt"
  "time"

  "gorm.io/datatypes"

  "github.com/peakform/peakform-backend/internal/types"
)

// buildInstances constructs the protocol-type-specific instances for a
// calendar day. The switch over the protocol type is exhaustive; an
// unknown type can only come from a corrupted row and is reported as
// such. Pure: no I/O, safe to unit-test.
func buildInstances(protocol *types.AutomatedProtocol, prep *types.ContestPrep, day time.Time) ([]*types.ProtocolInstance, error) {
  day = types.DayOf(day)

  base := func(slot string, payload any) (*types.ProtocolInstance, error) {
    raw, err := json.Marshal(payload)
    if err != nil {
      return nil, err
    }
    protocolID := protocol.ID
    return &types.ProtocolInstance{
      ContestPrepID: prep.ID,
      ProtocolID:    &protocolID,
      Category:      protocol.Type,
      Date:          day,
      Slot:          slot,
      Completed:     false,
      Payload:       datatypes.JSON(raw),
    }, nil
  }

  switch protocol.Type {
  case types.ProtocolCalorieCycling:
    plan := prep.MacroPlan.Data()
    dayType := "low"
    calories := plan.LowCalories
    weekday := int(day.Weekday())
    for _, d := range plan.HighDays {
      if d == weekday {
        dayType = "high"
        calories = plan.HighCalories
        break
      }
    }
    instance, err := base("", types.CalorieCyclingPayload{
      DayType:  dayType,
      Calories: calories,
      ProteinG: plan.ProteinG,
      CarbsG:   plan.CarbsG,
      FatG:     plan.FatG,
    })
    if err != nil {
      return nil, err
    }
    return []*types.ProtocolInstance{instance}, nil

  case types.ProtocolMacroAdjustment:
    plan := prep.MacroPlan.Data()
    instance, err := base("", types.MacroAdjustmentPayload{
      ProteinG: plan.ProteinG,
      CarbsG:   plan.CarbsG,
      FatG:     plan.FatG,
    })
    if err != nil {
      return nil, err
    }
    return []*types.ProtocolInstance{instance}, nil

  case types.ProtocolCardioProgramming:
    plan := prep.CardioPlan.Data()
    minutes := plan.Minutes
    if minutes <= 0 {
      minutes = 20
    }
    intensity := plan.Intensity
    if intensity == "" {
      intensity = "steady"
    }
    instance, err := base("", types.CardioPayload{
      Minutes:   minutes,
      Modality:  plan.Modality,
      Intensity: intensity,
    })
    if err != nil {
      return nil, err
    }
    return []*types.ProtocolInstance{instance}, nil

  case types.ProtocolSupplementTiming:
    supplements := prep.Supplements.Data()
    instances := make([]*types.ProtocolInstance, 0, len(supplements))
    for _, entry := range supplements {
      instance, err := base(entry.Name, types.SupplementPayload{
        Name:   entry.Name,
        Dose:   entry.Dose,
        Timing: entry.Timing,
      })
      if err != nil {
        return nil, err
      }
      instances = append(instances, instance)
    }
    return instances, nil

  case types.ProtocolProgressPhotos:
    instance, err := base("", types.ProgressPhotosPayload{
      Poses: []string{"front", "side", "back"},
    })
    if err != nil {
      return nil, err
    }
    return []*types.ProtocolInstance{instance}, nil
  }

  return nil, fmt.Errorf("unknown protocol type: %q", protocol.Type)
}
