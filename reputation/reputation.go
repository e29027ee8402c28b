// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reputation implements the MVRS (Minimum Viable Reputation Score)
// formula:
//
//	score = (verified actions x 10) + (endorsements x 5) + (active days x 1) + (certified ? 20 : 0)
package reputation

// Fixed MVRS weights
const (
	WeightVerifiedAction     = 10
	WeightEndorsement        = 5
	WeightActiveDay          = 1
	WeightCertificationBonus = 20
)

// EventType identifies the kind of reputation event being recorded
type EventType string

const (
	EventActionVerified      EventType = "action_verified"
	EventEndorsementReceived EventType = "endorsement_received"
	EventCertification       EventType = "certification"
	EventDailyActive         EventType = "daily_active"
)

// Valid returns true if the event type is one of the known kinds
func (t EventType) Valid() bool {
	switch t {
	case EventActionVerified,
		EventEndorsementReceived,
		EventCertification,
		EventDailyActive:
		return true
	default:
		return false
	}
}

// Points returns the point value recorded alongside an event of this type
func (t EventType) Points() int {
	switch t {
	case EventActionVerified:
		return WeightVerifiedAction
	case EventEndorsementReceived:
		return WeightEndorsement
	case EventCertification:
		return WeightCertificationBonus
	default:
		return WeightActiveDay
	}
}

// Breakdown holds the per-component scores that make up a member's total.
// The total is always the sum of the four components.
type Breakdown struct {
	ActionsScore       int `json:"actionsScore"`
	EndorsementsScore  int `json:"endorsementsScore"`
	TimeScore          int `json:"timeScore"`
	CertificationBonus int `json:"certificationBonus"`
}

// Total returns the sum of the breakdown components
func (b Breakdown) Total() int {
	return b.ActionsScore + b.EndorsementsScore + b.TimeScore + b.CertificationBonus
}

// Calculate derives a score breakdown from the given input counts. It is a
// pure function: counting the inputs and persisting the resulting snapshot
// are the caller's responsibility. Negative counts are clamped to zero so
// the components are always non-negative.
func Calculate(
	verifiedActions int,
	endorsements int,
	activeDays int,
	certified bool,
) Breakdown {
	bonus := 0
	if certified {
		bonus = WeightCertificationBonus
	}
	return Breakdown{
		ActionsScore:       max(verifiedActions, 0) * WeightVerifiedAction,
		EndorsementsScore:  max(endorsements, 0) * WeightEndorsement,
		TimeScore:          max(activeDays, 0) * WeightActiveDay,
		CertificationBonus: bonus,
	}
}
