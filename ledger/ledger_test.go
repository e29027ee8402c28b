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

package ledger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/amaruid/amaru/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeypair(t *testing.T) {
	pair, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pair.PublicKey, "G"))
	assert.Len(t, pair.PublicKey, 56)
	assert.True(t, strings.HasPrefix(pair.SecretSeed, "S"))
	assert.True(t, ledger.IsValidPublicKey(pair.PublicKey))
	assert.True(t, ledger.IsValidSecretSeed(pair.SecretSeed))
}

func TestPublicKeyFromSeed(t *testing.T) {
	pair, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	derived, err := ledger.PublicKeyFromSeed(pair.SecretSeed)
	require.NoError(t, err)
	assert.Equal(t, pair.PublicKey, derived)
}

func TestKeyValidationRejectsGarbage(t *testing.T) {
	assert.False(t, ledger.IsValidPublicKey("not-a-key"))
	assert.False(t, ledger.IsValidPublicKey(""))
	assert.False(t, ledger.IsValidSecretSeed("not-a-seed"))
	// A public key is not a secret seed
	pair, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	assert.False(t, ledger.IsValidSecretSeed(pair.PublicKey))
}

func TestTruncateKey(t *testing.T) {
	key := "GABCDEFGHIJKLMNOPQRSTUVWXYZ234567ABCDEFGHIJKLMNOPQRSTUV"
	assert.Equal(t, "GABC...STUV", ledger.TruncateKey(key, 4))
	// Short keys are returned unchanged
	assert.Equal(t, "GABC", ledger.TruncateKey("GABC", 4))
	assert.Equal(t, key, ledger.TruncateKey(key, 0))
}

func TestMultisigParamsValidate(t *testing.T) {
	community, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	leader1, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	leader2, err := ledger.GenerateKeypair()
	require.NoError(t, err)

	valid := ledger.MultisigParams{
		CommunitySecretSeed: community.SecretSeed,
		LeaderPublicKeys:    []string{leader1.PublicKey, leader2.PublicKey},
		ThresholdLow:        1,
		ThresholdMed:        2,
		ThresholdHigh:       2,
	}
	assert.NoError(t, valid.Validate())

	noSigners := valid
	noSigners.LeaderPublicKeys = nil
	assert.Error(t, noSigners.Validate())

	badSeed := valid
	badSeed.CommunitySecretSeed = "nope"
	assert.Error(t, badSeed.Validate())

	unreachable := valid
	unreachable.ThresholdHigh = 3
	assert.Error(t, unreachable.Validate())

	decreasing := valid
	decreasing.ThresholdLow = 2
	decreasing.ThresholdMed = 1
	assert.Error(t, decreasing.Validate())

	zero := valid
	zero.ThresholdLow = 0
	assert.Error(t, zero.Validate())
}

func TestNewClientDefaults(t *testing.T) {
	client := ledger.NewClient(ledger.Config{})
	assert.Equal(t, ledger.DefaultHorizonURL, client.HorizonURL())
}

func TestNetworkValid(t *testing.T) {
	assert.True(t, ledger.NetworkTestnet.Valid())
	assert.True(t, ledger.NetworkPublic.Valid())
	assert.False(t, ledger.Network("mainnet").Valid())
}

func TestMemberIdentityEntries(t *testing.T) {
	entries := ledger.MemberIdentityEntries("Ana", "GCOMMUNITY", "member")
	assert.Equal(t, "Ana", entries[ledger.DataKeyName])
	assert.Equal(t, "GCOMMUNITY", entries[ledger.DataKeyCommunity])
	assert.Equal(t, "member", entries[ledger.DataKeyRole])
	assert.NotEmpty(t, entries[ledger.DataKeyCreated])
}

func TestSignAndSubmitRejectsMalformedEnvelope(t *testing.T) {
	client := ledger.NewClient(ledger.Config{})
	pair, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	_, err = client.SignAndSubmit(
		context.Background(),
		"not-a-transaction-envelope",
		[]string{pair.SecretSeed},
	)
	assert.ErrorContains(t, err, "failed to parse transaction")
}
