// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config holds the sync core's tunables as fields loadable from
// YAML, with defaults matching §6's named constants.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hubsync/hub/comm"
	"github.com/hubsync/hub/gossip"
)

// Config is the set of settings a hub process loads at startup. The
// protocol tunables default to the values §6 specifies; a deployment only
// needs a config file to change one of them.
type Config struct {
	// PeerID is this hub's gossip identity, of the form
	// "<agent>/v<major>.<minor>.<patch>-<rest>".
	PeerID string `yaml:"peerId"`

	// RPCAddress is the address the reference rpcserver listens on. It is
	// not included in this hub's own contact record.
	RPCAddress string `yaml:"rpcAddress"`

	// DataDir is where the reference leveldbstore keeps its database.
	DataDir string `yaml:"dataDir"`

	// SyncThreshold mirrors SYNC_THRESHOLD_IN_SECONDS. The sync engine
	// reads comm.SyncThresholdSeconds directly, so this field does not
	// change its behaviour.
	SyncThreshold int `yaml:"syncThresholdSeconds"`

	// HashesPerFetch mirrors HASHES_PER_FETCH. The sync engine reads
	// comm.HashesPerFetch directly, so this field does not change its
	// behaviour.
	HashesPerFetch int `yaml:"hashesPerFetch"`

	// GossipIntervalMS mirrors GOSSIP_CONTACT_INTERVAL. The gossip
	// publisher reads gossip.ContactInterval directly, so this field does
	// not change its behaviour.
	GossipIntervalMS int `yaml:"gossipContactIntervalMs"`

	// MetricsEnabled switches the metrics package from its default no-op
	// backend to a real Prometheus collector.
	MetricsEnabled bool `yaml:"metricsEnabled"`
}

// Default returns a Config carrying every §6 constant's default value.
func Default() Config {
	return Config{
		RPCAddress:       ":8181",
		DataDir:          "./hubsync-data",
		SyncThreshold:    comm.SyncThresholdSeconds,
		HashesPerFetch:   comm.HashesPerFetch,
		GossipIntervalMS: gossip.ContactInterval,
	}
}

// Load reads a YAML config file at path and overlays it on Default(). A
// missing file is not an error: callers get the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}
	return cfg, nil
}

// GossipInterval is GossipIntervalMS as a time.Duration.
func (c Config) GossipInterval() time.Duration {
	return time.Duration(c.GossipIntervalMS) * time.Millisecond
}
