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

package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Version information, set by -ldflags at build time.
var (
	ReleaseVersion = "None"
	BuildTS        = "None"
	GitHash        = "None"
	GitBranch      = "None"
	GoVersion      = "None"
)

// gitDescribeSuffix matches the `-<commits>-g<hash>` part of `git describe`.
var gitDescribeSuffix = regexp.MustCompile("-[0-9]+-g[0-9a-f]{7,}(-dev)?")

// Info is the build information of a binary.
type Info struct {
	App            string
	ReleaseVersion string
	GitHash        string
	GitBranch      string
	BuildTS        string
	GoVersion      string
}

// GetInfo returns the build information of app.
func GetInfo(app string) Info {
	return Info{
		App:            app,
		ReleaseVersion: ReleaseVersion,
		GitHash:        GitHash,
		GitBranch:      GitBranch,
		BuildTS:        BuildTS,
		GoVersion:      GoVersion,
	}
}

func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", i.App)
	fmt.Fprintf(&sb, "Release Version: %s\n", i.ReleaseVersion)
	fmt.Fprintf(&sb, "Git Commit Hash: %s\n", i.GitHash)
	fmt.Fprintf(&sb, "Git Branch: %s\n", i.GitBranch)
	fmt.Fprintf(&sb, "UTC Build Time: %s\n", i.BuildTS)
	fmt.Fprintf(&sb, "Go Version: %s\n", i.GoVersion)
	return sb.String()
}

// ReleaseSemver returns the release version as a semantic version, or an
// empty string if the binary was built without a tagged version.
func ReleaseSemver() string {
	v, err := semver.NewVersion(normalize(ReleaseVersion))
	if err != nil {
		return ""
	}
	return v.String()
}

// normalize strips the leading v and the `git describe` decorations.
func normalize(v string) string {
	v = gitDescribeSuffix.ReplaceAllLiteralString(v, "")
	v = strings.TrimSuffix(v, "-dirty")
	return strings.TrimPrefix(v, "v")
}

// LogVersionInfo logs the build information of app.
func LogVersionInfo(app string) {
	i := GetInfo(app)
	log.Info("Welcome to "+app,
		zap.String("release-version", i.ReleaseVersion),
		zap.String("semver", ReleaseSemver()),
		zap.String("git-hash", i.GitHash),
		zap.String("git-branch", i.GitBranch),
		zap.String("utc-build-time", i.BuildTS),
		zap.String("go-version", i.GoVersion),
	)
}

// GetRawInfo returns the build information of app as text.
func GetRawInfo(app string) string {
	return GetInfo(app).String()
}
