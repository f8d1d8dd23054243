package graph

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sailkite/dockyard/src/model"
)

type fakeWorkspace struct {
	materialized []string
}

func (w *fakeWorkspace) Dir(imageName string) string {
	return filepath.Join(".dockyard", "context", imageName)
}

func (w *fakeWorkspace) Materialize(ctx context.Context, img *model.Image) error {
	w.materialized = append(w.materialized, img.Name)
	return nil
}

type fixture struct {
	images     *model.Container[*model.Image]
	registries *model.Container[*model.Registry]
	tasks      *Registry
	engine     *Engine
}

func synth(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		images:     model.NewImages(),
		registries: model.NewRegistries(),
		tasks:      NewRegistry(),
	}
	f.engine = NewEngine(f.images, f.registries, f.tasks, &fakeWorkspace{})
	if err := f.engine.Synthesize(); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	return f
}

func (f *fixture) task(t *testing.T, name string) *Task {
	t.Helper()
	task, ok := f.tasks.Get(name)
	if !ok {
		t.Fatalf("task %q not found; have %v", name, f.tasks.Names())
	}
	return task
}

func depNames(task *Task) []string {
	var out []string
	for _, d := range task.Deps() {
		out = append(out, d.Name)
	}
	return out
}

func hasDep(task *Task, name string) bool {
	for _, d := range task.Deps() {
		if d.Name == name {
			return true
		}
	}
	return false
}

func TestSynthesize_DefaultImageTaskSurface(t *testing.T) {
	f := synth(t)
	for _, name := range []string{
		"dockerPrepare", "dockerBuild", "dockerPush", "dockerBuildxBuild", "dockerBuildxPush",
		"dockerPrepareMain", "dockerBuildMain", "dockerBuildxBuildMain",
		"dockerRun",
	} {
		f.task(t, name)
	}
	// The default image's run task has no segment suffix.
	if _, ok := f.tasks.Get("dockerRunMain"); ok {
		t.Fatalf("dockerRunMain should not exist for the default image")
	}
}

func TestSynthesize_NamedImageRunTask(t *testing.T) {
	f := synth(t)
	f.images.GetOrRegister("side-car", nil)
	f.task(t, "dockerRunSideCar")
	f.task(t, "dockerBuildSideCar")
}

func TestSynthesize_Wiring(t *testing.T) {
	f := synth(t)
	f.registries.GetOrRegister("ghcr", func(r *model.Registry) { r.SetPrefix("ghcr.io/me") })

	if got := depNames(f.task(t, "dockerBuildMain")); !reflect.DeepEqual(got, []string{"dockerPrepareMain"}) {
		t.Fatalf("dockerBuildMain deps = %v", got)
	}
	if got := depNames(f.task(t, "dockerRun")); !reflect.DeepEqual(got, []string{"dockerBuildMain"}) {
		t.Fatalf("dockerRun deps = %v", got)
	}
	if got := depNames(f.task(t, "dockerPushMainToGhcr")); !reflect.DeepEqual(got, []string{"dockerBuildMain"}) {
		t.Fatalf("dockerPushMainToGhcr deps = %v", got)
	}
	if got := depNames(f.task(t, "dockerPushMainLatestToGhcr")); !reflect.DeepEqual(got, []string{"dockerBuildMain"}) {
		t.Fatalf("dockerPushMainLatestToGhcr deps = %v", got)
	}
	// Buildx tasks hang off prepare, not the single-platform build.
	if got := depNames(f.task(t, "dockerBuildxBuildMain")); !reflect.DeepEqual(got, []string{"dockerPrepareMain"}) {
		t.Fatalf("dockerBuildxBuildMain deps = %v", got)
	}
	if got := depNames(f.task(t, "dockerBuildxPushMainToGhcr")); !reflect.DeepEqual(got, []string{"dockerPrepareMain"}) {
		t.Fatalf("dockerBuildxPushMainToGhcr deps = %v", got)
	}
}

func TestSynthesize_LateRegistryStillWired(t *testing.T) {
	f := synth(t)
	f.images.GetOrRegister("worker", nil)

	// Registry declared after both images.
	f.registries.GetOrRegister("hub", func(r *model.Registry) { r.SetPrefix("docker.io/acme") })

	for _, name := range []string{
		"dockerPushMainToHub", "dockerPushMainLatestToHub", "dockerBuildxPushMainToHub",
		"dockerPushWorkerToHub", "dockerPushWorkerLatestToHub", "dockerBuildxPushWorkerToHub",
		"dockerPushAllImagesToHub", "pushAllBuildxImagesToHub",
	} {
		f.task(t, name)
	}

	agg := f.task(t, "dockerPushAllImagesToHub")
	for _, dep := range []string{
		"dockerPushMainToHub", "dockerPushMainLatestToHub",
		"dockerPushWorkerToHub", "dockerPushWorkerLatestToHub",
	} {
		if !hasDep(agg, dep) {
			t.Fatalf("aggregate missing dep %q: %v", dep, depNames(agg))
		}
	}

	bx := f.task(t, "pushAllBuildxImagesToHub")
	for _, dep := range []string{"dockerBuildxPushMainToHub", "dockerBuildxPushWorkerToHub"} {
		if !hasDep(bx, dep) {
			t.Fatalf("buildx aggregate missing dep %q: %v", dep, depNames(bx))
		}
	}
}

func TestSynthesize_LateImageJoinsGlobalAggregates(t *testing.T) {
	f := synth(t)
	f.registries.GetOrRegister("ghcr", nil)
	f.images.GetOrRegister("extra", nil)

	if !hasDep(f.task(t, "dockerBuild"), "dockerBuildExtra") {
		t.Fatalf("dockerBuild missed late image: %v", depNames(f.task(t, "dockerBuild")))
	}
	if !hasDep(f.task(t, "dockerPush"), "dockerPushExtraToGhcr") {
		t.Fatalf("dockerPush missed late image: %v", depNames(f.task(t, "dockerPush")))
	}
	if !hasDep(f.task(t, "dockerBuildxPush"), "dockerBuildxPushExtraToGhcr") {
		t.Fatalf("dockerBuildxPush missed late image: %v", depNames(f.task(t, "dockerBuildxPush")))
	}
}

func TestSynthesize_AggregateCreatedOnce(t *testing.T) {
	f := synth(t)
	f.registries.GetOrRegister("ghcr", nil)
	f.images.GetOrRegister("a", nil)
	f.images.GetOrRegister("b", nil)

	count := 0
	for _, name := range f.tasks.Names() {
		if name == "dockerPushAllImagesToGhcr" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("aggregate registered %d times", count)
	}
	agg := f.task(t, "dockerPushAllImagesToGhcr")
	if !agg.Umbrella() {
		t.Fatalf("aggregate should carry no action")
	}
}

func TestSynthesize_LatestPushConditionFollowsLateConfiguration(t *testing.T) {
	f := synth(t)
	f.registries.GetOrRegister("ghcr", nil)

	task := f.task(t, "dockerPushMainLatestToGhcr")
	if task.Action == nil || task.Action.Condition == nil {
		t.Fatalf("latest push must be condition-gated")
	}

	// Flag set after the task was synthesized.
	img, _ := f.images.Get(model.DefaultImageName)
	img.LatestTag.Set(false)

	if task.Action.Condition() {
		t.Fatalf("condition should reflect the final latest flag")
	}
}

func TestSynthesize_BuildArgsSeeRegistriesAtExecutionTime(t *testing.T) {
	f := synth(t)
	img, _ := f.images.Get(model.DefaultImageName)
	img.ImageName.Set("app")
	img.ImageVersion.Set("1.0")

	build := f.task(t, "dockerBuildMain")

	// Registry declared after the build task exists.
	f.registries.GetOrRegister("ghcr", func(r *model.Registry) { r.SetPrefix("ghcr.io/me") })

	args := build.Action.Docker()
	found := false
	for _, a := range args {
		if a == "ghcr.io/me/app:1.0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("build argv missing late registry tag: %v", args)
	}
}

func TestSynthesize_StableAcrossRuns(t *testing.T) {
	build := func() []string {
		f := synth(t)
		f.images.GetOrRegister("worker", nil)
		f.registries.GetOrRegister("ghcr", nil)
		return f.tasks.Names()
	}
	first := build()
	second := build()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("task surface not stable:\n%v\n%v", first, second)
	}
}

func TestSynthesize_CollidingSegmentsReported(t *testing.T) {
	f := synth(t)
	f.images.GetOrRegister("my-image", nil)
	f.images.GetOrRegister("my_image", nil)
	if f.engine.Err() == nil {
		t.Fatalf("expected duplicate task error for colliding segments")
	}
}
