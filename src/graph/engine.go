package graph

import (
	"context"

	"github.com/sailkite/dockyard/src/command"
	"github.com/sailkite/dockyard/src/model"
	"github.com/sailkite/dockyard/src/naming"
)

// Workspace materializes build contexts. The engine only wires it in;
// copying happens when the prepare task executes.
type Workspace interface {
	// Dir returns the build-context directory for an image.
	Dir(imageName string) string
	// Materialize populates that directory from the image's file spec.
	Materialize(ctx context.Context, img *model.Image) error
}

// Engine derives the task graph from the live entity containers. Images
// and registries registered after Synthesize are still wired in, because
// the engine subscribes to both containers rather than iterating them.
type Engine struct {
	images     *model.Container[*model.Image]
	registries *model.Container[*model.Registry]
	tasks      *Registry
	workspace  Workspace

	prepareAll     *Task
	buildAll       *Task
	pushAll        *Task
	buildxBuildAll *Task
	buildxPushAll  *Task

	err error
}

// NewEngine creates an engine over the given containers.
func NewEngine(images *model.Container[*model.Image], registries *model.Container[*model.Registry], tasks *Registry, ws Workspace) *Engine {
	return &Engine{
		images:     images,
		registries: registries,
		tasks:      tasks,
		workspace:  ws,
	}
}

// Synthesize registers the global umbrella tasks and subscribes to the
// entity containers, creating the per-image and per-image-per-registry
// tasks for every current and future declaration. The first naming
// collision aborts with an error.
func (e *Engine) Synthesize() error {
	e.prepareAll = e.register("dockerPrepare", nil)
	e.buildAll = e.register("dockerBuild", nil)
	e.pushAll = e.register("dockerPush", nil)
	e.buildxBuildAll = e.register("dockerBuildxBuild", nil)
	e.buildxPushAll = e.register("dockerBuildxPush", nil)

	e.images.Each(e.imageTasks)
	return e.err
}

// Err reports the first naming collision, including ones caused by
// declarations that arrived after Synthesize returned.
func (e *Engine) Err() error { return e.err }

// imageTasks creates the unconditional per-image tasks and subscribes the
// image against the registry container for the cross-product tasks.
func (e *Engine) imageTasks(img *model.Image) {
	seg := naming.Segment(img.Name)
	contextDir := e.workspace.Dir(img.Name)

	prepare := e.register("dockerPrepare"+seg, &Action{
		Do: func(ctx context.Context) error {
			return e.workspace.Materialize(ctx, img)
		},
	})
	e.prepareAll.DependsOn(prepare)

	build := e.register("dockerBuild"+seg, &Action{
		Docker: func() []string {
			return command.BuildArgs(img.Snapshot(), e.allRegistries(), contextDir)
		},
		InputDir: func() string { return contextDir },
	})
	build.DependsOn(prepare)
	e.buildAll.DependsOn(build)

	buildx := e.register("dockerBuildxBuild"+seg, &Action{
		Docker: func() []string {
			return command.BuildxArgs(img.Snapshot(), command.BuildxLoad, nil, contextDir)
		},
		InputDir: func() string { return contextDir },
	})
	// Buildx builds from the prepared context directly; the two build
	// modes are independent.
	buildx.DependsOn(prepare)
	e.buildxBuildAll.DependsOn(buildx)

	runName := "dockerRun"
	if img.Name != model.DefaultImageName {
		runName += seg
	}
	run := e.register(runName, &Action{
		Docker: func() []string { return command.RunArgs(img.Snapshot()) },
	})
	run.DependsOn(build)

	e.registries.Each(func(reg *model.Registry) {
		e.pushTasks(img, seg, prepare, build, contextDir, reg)
	})
}

// pushTasks creates the tasks for one image×registry pair and wires them
// into the per-registry and global aggregates.
func (e *Engine) pushTasks(img *model.Image, seg string, prepare, build *Task, contextDir string, reg *model.Registry) {
	regSeg := naming.Segment(reg.Name)

	push := e.register("dockerPush"+seg+"To"+regSeg, &Action{
		Docker: func() []string {
			return command.PushArgs(reg.Prefix() + img.Snapshot().Ref())
		},
	})
	push.DependsOn(build)

	// The latest-push task always exists; whether it pushes is decided at
	// execution time so the latest flag can settle after synthesis.
	pushLatest := e.register("dockerPush"+seg+"LatestTo"+regSeg, &Action{
		Docker: func() []string {
			return command.PushArgs(reg.Prefix() + img.Snapshot().LatestRef())
		},
		Condition: func() bool { return img.LatestTag.Get() },
	})
	pushLatest.DependsOn(build)

	buildxPush := e.register("dockerBuildxPush"+seg+"To"+regSeg, &Action{
		Docker: func() []string {
			return command.BuildxArgs(img.Snapshot(), command.BuildxPush, []*model.Registry{reg}, contextDir)
		},
		InputDir: func() string { return contextDir },
	})
	buildxPush.DependsOn(prepare)

	pushAllTo := e.tasks.GetOrRegister("dockerPushAllImagesTo"+regSeg, DockerGroup)
	pushAllTo.DependsOn(push, pushLatest)

	buildxPushAllTo := e.tasks.GetOrRegister("pushAllBuildxImagesTo"+regSeg, DockerGroup)
	buildxPushAllTo.DependsOn(buildxPush)

	e.pushAll.DependsOn(push, pushLatest)
	e.buildxPushAll.DependsOn(buildxPush)
}

// allRegistries returns the currently-registered registries in
// registration order. Build tags cover every registry known at execution
// time, not at synthesis time.
func (e *Engine) allRegistries() []*model.Registry {
	out := make([]*model.Registry, 0, e.registries.Len())
	for _, name := range e.registries.Names() {
		reg, _ := e.registries.Get(name)
		out = append(out, reg)
	}
	return out
}

func (e *Engine) register(name string, action *Action) *Task {
	t, err := e.tasks.Register(name, DockerGroup, action)
	if err != nil && e.err == nil {
		e.err = err
	}
	if t == nil {
		// Collision: return the existing task so wiring can proceed while
		// the error is reported from Synthesize.
		t, _ = e.tasks.Get(name)
	}
	return t
}
