/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"
)

// Global variables
// ================

/*
ProductVersion is the current version of NS.
*/
const ProductVersion = "1.0.0"

/*
Known configuration options for NS.
*/
const (
	// ImportRoot is the directory `import NAME;` statements resolve
	// against when a Provider is created without an ImportLocator;
	// defaults to the current directory. The ns command sets its own
	// locator rooted at the main source file's directory instead.
	ImportRoot = "ImportRoot"

	// MaxCallDepth bounds host call-stack growth from NS function
	// calls; 0 means unbounded (the host's own stack limit applies).
	MaxCallDepth = "MaxCallDepth"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	ImportRoot:   ".",
	MaxCallDepth: 0,
}

/*
Config is the actual config which is used.
*/
var Config map[string]interface{}

/*
Initialise the config.
*/
func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return int(ret)
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
