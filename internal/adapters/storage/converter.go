package storage

import (
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// toModel converts domain.Sample to SampleModel.
func toModel(s domain.Sample) SampleModel {
	return SampleModel{
		Label:      s.Time,
		Timestamp:  s.Timestamp,
		Online:     s.Online,
		Offline:    s.Offline,
		LowBattery: s.LowBattery,
	}
}

// toDomain converts SampleModel to domain.Sample.
func toDomain(m SampleModel) domain.Sample {
	return domain.Sample{
		Time:       m.Label,
		Timestamp:  m.Timestamp,
		Online:     m.Online,
		Offline:    m.Offline,
		LowBattery: m.LowBattery,
	}
}
