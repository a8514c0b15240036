// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
)

// StrictDecodeFile decodes the toml file strictly. If any item in confFile file is not mapped
// into the Config struct, issue an error and stop the server from starting.
func StrictDecodeFile(path, component string, cfg interface{}, ignoreCheckItems ...string) error {
	metaData, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return cerrors.WrapError(cerrors.ErrDecodeConfigFile, err, path, component)
	}

	// check if item is a ignoreCheckItem
	hasIgnoreItem := func(item []string) bool {
		for _, ignoreCheckItem := range ignoreCheckItems {
			if item[0] == ignoreCheckItem {
				return true
			}
		}
		return false
	}

	undecoded := metaData.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	var unknown []string
	for _, item := range undecoded {
		if hasIgnoreItem(item) {
			continue
		}
		unknown = append(unknown, item.String())
	}
	if len(unknown) > 0 {
		return cerrors.ErrConfigUnknownItem.GenWithStackByArgs(
			component, path, strings.Join(unknown, ", "))
	}
	return nil
}
