// Package command constructs argument lists for the docker CLI. Argument
// order is a compatibility contract: downstream tooling may parse or
// snapshot the generated command lines, so every function appends in a
// fixed, documented order.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sailkite/dockyard/src/model"
)

// BuildxMode selects the output of a multi-platform build. The two modes
// are mutually exclusive per invocation: --load and --push never appear
// together.
type BuildxMode int

const (
	// BuildxLoad builds for the local daemon with unprefixed tags.
	BuildxLoad BuildxMode = iota
	// BuildxPush builds and pushes registry-prefixed tags.
	BuildxPush
)

// BuildArgs returns the argv for a single-platform build:
//
//	build [--build-arg k=v]... [-t tag]... contextPath
//
// Tags appear as: name:version, name:latest (when latest tagging is on),
// then per registry in registration order the prefixed version and latest
// variants. Build args are emitted in sorted key order so the argv is
// deterministic regardless of declaration order.
func BuildArgs(img model.ImageSnapshot, registries []*model.Registry, contextPath string) []string {
	args := []string{"build"}
	args = appendBuildArgs(args, img.BuildArgs)

	args = append(args, "-t", img.Ref())
	if img.Latest {
		args = append(args, "-t", img.LatestRef())
	}
	for _, reg := range registries {
		args = append(args, "-t", reg.Prefix()+img.Ref())
		if img.Latest {
			args = append(args, "-t", reg.Prefix()+img.LatestRef())
		}
	}

	return append(args, contextPath)
}

// BuildxArgs returns the argv for a multi-platform build:
//
//	buildx build [--platform p1,p2] [--build-arg k=v]... <tags> <output> contextPath
//
// In load mode the tags are the unprefixed ones and the output flag is
// --load; in push mode the tags are the registry-prefixed ones for every
// registry, and the output flag is --push.
func BuildxArgs(img model.ImageSnapshot, mode BuildxMode, registries []*model.Registry, contextPath string) []string {
	args := []string{"buildx", "build"}

	if len(img.Platforms) > 0 {
		args = append(args, "--platform", strings.Join(img.Platforms, ","))
	}
	args = appendBuildArgs(args, img.BuildArgs)

	switch mode {
	case BuildxLoad:
		args = append(args, "--tag", img.Ref())
		if img.Latest {
			args = append(args, "--tag", img.LatestRef())
		}
		args = append(args, "--load")
	case BuildxPush:
		for _, reg := range registries {
			args = append(args, "--tag", reg.Prefix()+img.Ref())
			if img.Latest {
				args = append(args, "--tag", reg.Prefix()+img.LatestRef())
			}
		}
		args = append(args, "--push")
	}

	return append(args, contextPath)
}

// PushArgs returns the argv pushing a single reference.
func PushArgs(ref string) []string {
	return []string{"push", ref}
}

// RunArgs returns the argv for a foreground run of the built image.
func RunArgs(img model.ImageSnapshot) []string {
	return []string{"run", "--rm", img.Ref()}
}

func appendBuildArgs(args []string, buildArgs map[string]string) []string {
	keys := make([]string, 0, len(buildArgs))
	for k := range buildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, buildArgs[k]))
	}
	return args
}
