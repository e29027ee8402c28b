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

package reputation_test

import (
	"testing"

	"github.com/amaruid/amaru/reputation"
)

func TestCalculateZeroInputs(t *testing.T) {
	breakdown := reputation.Calculate(0, 0, 0, false)
	if breakdown.Total() != 0 {
		t.Fatalf("expected total 0, got %d", breakdown.Total())
	}
}

func TestCalculateCertifiedMember(t *testing.T) {
	breakdown := reputation.Calculate(3, 2, 5, true)
	expected := reputation.Breakdown{
		ActionsScore:       30,
		EndorsementsScore:  10,
		TimeScore:          5,
		CertificationBonus: 20,
	}
	if breakdown != expected {
		t.Fatalf("expected breakdown %+v, got %+v", expected, breakdown)
	}
	if breakdown.Total() != 65 {
		t.Fatalf("expected total 65, got %d", breakdown.Total())
	}
}

func TestCalculateTotalMatchesFormula(t *testing.T) {
	for actions := range 8 {
		for endorsements := range 8 {
			for days := range 8 {
				for _, certified := range []bool{false, true} {
					breakdown := reputation.Calculate(
						actions,
						endorsements,
						days,
						certified,
					)
					expected := actions*10 + endorsements*5 + days
					if certified {
						expected += 20
					}
					if breakdown.Total() != expected {
						t.Fatalf(
							"Calculate(%d, %d, %d, %t): expected total %d, got %d",
							actions,
							endorsements,
							days,
							certified,
							expected,
							breakdown.Total(),
						)
					}
				}
			}
		}
	}
}

func TestCalculateClampsNegativeCounts(t *testing.T) {
	breakdown := reputation.Calculate(-1, -5, -3, false)
	if breakdown.Total() != 0 {
		t.Fatalf("expected total 0 for negative inputs, got %d", breakdown.Total())
	}
}

func TestEventTypePoints(t *testing.T) {
	testDefs := []struct {
		eventType reputation.EventType
		points    int
	}{
		{reputation.EventActionVerified, 10},
		{reputation.EventEndorsementReceived, 5},
		{reputation.EventCertification, 20},
		{reputation.EventDailyActive, 1},
	}
	for _, testDef := range testDefs {
		if testDef.eventType.Points() != testDef.points {
			t.Fatalf(
				"expected %d points for %s, got %d",
				testDef.points,
				testDef.eventType,
				testDef.eventType.Points(),
			)
		}
	}
}

func TestEventTypeValid(t *testing.T) {
	if !reputation.EventDailyActive.Valid() {
		t.Fatalf("expected daily_active to be valid")
	}
	if reputation.EventType("bogus").Valid() {
		t.Fatalf("expected bogus event type to be invalid")
	}
}
