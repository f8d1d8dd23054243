package config

import (
	"fmt"

	"github.com/sailkite/dockyard/src/model"
)

// Defaults supplies the project-level fallbacks wired into every image
// that does not override them. Both are deferred: they run on first
// attribute read, not at configuration time.
type Defaults struct {
	ProjectName    func() string
	ProjectVersion func() string
}

// Apply populates the entity containers from the manifest. The default
// providers are subscribed first, so images registered here or later start
// from project defaults; explicit declarations then override per field.
// Duplicate declarations within the manifest are a configuration error.
func (cfg *Config) Apply(images *model.Container[*model.Image], registries *model.Container[*model.Registry], defaults Defaults) error {
	images.Each(func(img *model.Image) {
		if defaults.ProjectName != nil {
			img.ImageName.SetProvider(defaults.ProjectName)
		}
		if defaults.ProjectVersion != nil {
			img.ImageVersion.SetProvider(defaults.ProjectVersion)
		}
	})

	seenImages := map[string]bool{}
	for _, ic := range cfg.Images {
		if ic.Name == "" {
			return fmt.Errorf("image declaration without a name")
		}
		if seenImages[ic.Name] {
			return fmt.Errorf("duplicate image declaration: %q", ic.Name)
		}
		seenImages[ic.Name] = true

		img := images.GetOrRegister(ic.Name, nil)
		applyImage(img, ic)
	}

	seenRegistries := map[string]bool{}
	for _, rc := range cfg.Registries {
		if rc.Name == "" {
			return fmt.Errorf("registry declaration without a name")
		}
		if seenRegistries[rc.Name] {
			return fmt.Errorf("duplicate registry declaration: %q", rc.Name)
		}
		seenRegistries[rc.Name] = true

		prefix := rc.Prefix
		registries.GetOrRegister(rc.Name, func(r *model.Registry) {
			r.SetPrefix(prefix)
		})
	}

	return nil
}

func applyImage(img *model.Image, ic ImageConfig) {
	if ic.ImageName != "" {
		img.ImageName.Set(ic.ImageName)
	}
	if ic.Version != "" {
		img.ImageVersion.Set(ic.Version)
	}
	if ic.Latest != nil {
		img.LatestTag.Set(*ic.Latest)
	}
	if len(ic.BuildArgs) > 0 {
		img.BuildArgs.Set(ic.BuildArgs)
	}
	if len(ic.Platforms) > 0 {
		img.Platforms.Set(ic.Platforms)
	}
	if len(ic.Files) > 0 {
		img.Files.Set([]string(ic.Files))
	}
	if ic.JVM != nil {
		img.JVM = &model.JVMSpec{
			BaseImage: ic.JVM.BaseImage,
			BaseTag:   ic.JVM.BaseTag,
			AppName:   ic.JVM.AppName,
			Extra:     ic.JVM.Extra,
		}
	}
}
