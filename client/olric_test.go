// Copyright 2024-2025 NetCracker Technology Corporation
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

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Local(t *testing.T) {
	cfg, err := getConfig(OlricConfig{Peers: []string{"10.0.0.1:3320"}})
	require.NoError(t, err)
	assert.Equal(t, olricBindAddr, cfg.BindAddr)
	assert.NotZero(t, cfg.BindPort)
	assert.Equal(t, uint64(5), cfg.PartitionCount)
	assert.Equal(t, []string{"10.0.0.1:3320"}, cfg.Peers)
}

func TestGetConfig_Lan(t *testing.T) {
	_, err := getConfig(OlricConfig{DiscoveryMode: "lan"})
	assert.Error(t, err, "namespace is required in lan mode")

	cfg, err := getConfig(OlricConfig{DiscoveryMode: "lan", Namespace: "portal", ReplicaCount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ReplicaCount)
	assert.Equal(t, uint64(12), cfg.PartitionCount)
	assert.Equal(t, int32(3), cfg.MemberCountQuorum)
	assert.Equal(t, "k8s", cfg.ServiceDiscovery["provider"])
	assert.Contains(t, cfg.ServiceDiscovery["args"], "namespace=portal")
}

func TestGetReplicaCount(t *testing.T) {
	assert.Equal(t, 1, getReplicaCount(0))
	assert.Equal(t, 4, getReplicaCount(4))
}
