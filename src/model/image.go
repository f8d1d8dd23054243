// Package model holds the image and registry declaration records and
// their containers. All attributes are deferred cells so declarations can
// arrive in any order; values settle on first read, which happens no
// earlier than task execution.
package model

// DefaultImageName is the image every project gets implicitly.
const DefaultImageName = "main"

// JVMSpec configures generation of a Dockerfile for a JVM application
// image. When set, the prepare step renders the Dockerfile into the build
// context instead of expecting one among the copied files.
type JVMSpec struct {
	BaseImage string
	BaseTag   string
	AppName   string
	Extra     []string // verbatim extra Dockerfile lines
}

// Image is one buildable artifact declaration.
type Image struct {
	// Name is the declaration identity, unique within the container,
	// immutable after creation.
	Name string

	ImageName    *Lazy[string]
	ImageVersion *Lazy[string]
	LatestTag    *Lazy[bool]
	BuildArgs    *Lazy[map[string]string]
	Platforms    *Lazy[[]string]
	// Files lists the paths copied into the build context.
	Files *Lazy[[]string]

	JVM *JVMSpec
}

// NewImage creates an image with empty defaults. Project-level defaults
// (image name, version) are wired in by the configuration layer via
// SetProvider.
func NewImage(name string) *Image {
	return &Image{
		Name:         name,
		ImageName:    NewLazy(func() string { return "" }),
		ImageVersion: NewLazy(func() string { return "" }),
		LatestTag:    NewLazy(func() bool { return true }),
		BuildArgs:    NewLazy(func() map[string]string { return map[string]string{} }),
		Platforms:    NewLazy(func() []string { return nil }),
		Files:        NewLazy(func() []string { return nil }),
	}
}

// ImageSnapshot is the resolved view of an image, taken at the execution
// boundary once configuration is complete.
type ImageSnapshot struct {
	Name      string
	ImageName string
	Version   string
	Latest    bool
	BuildArgs map[string]string
	Platforms []string
	Files     []string
}

// Snapshot resolves every deferred attribute.
func (img *Image) Snapshot() ImageSnapshot {
	return ImageSnapshot{
		Name:      img.Name,
		ImageName: img.ImageName.Get(),
		Version:   img.ImageVersion.Get(),
		Latest:    img.LatestTag.Get(),
		BuildArgs: img.BuildArgs.Get(),
		Platforms: img.Platforms.Get(),
		Files:     img.Files.Get(),
	}
}

// Ref returns the unprefixed image reference "name:version".
func (s ImageSnapshot) Ref() string {
	return s.ImageName + ":" + s.Version
}

// LatestRef returns the unprefixed ":latest" reference.
func (s ImageSnapshot) LatestRef() string {
	return s.ImageName + ":latest"
}

// NewImages creates the image container with the default "main" image
// already present.
func NewImages() *Container[*Image] {
	c := NewContainer(NewImage)
	c.GetOrRegister(DefaultImageName, nil)
	return c
}
