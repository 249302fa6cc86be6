// Package decomp coordinates one convex decomposition run: export the
// selected mesh, invoke the configured solver, and reconcile the
// resulting hulls back into the host scene under the UCX naming scheme.
package decomp

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/meshforge/convdec/internal/config"
	"github.com/meshforge/convdec/internal/logger"
	"github.com/meshforge/convdec/internal/scene"
	"github.com/meshforge/convdec/internal/solver"
	"github.com/meshforge/convdec/pkg/obj"
)

// Host is the set of scene operations the pipeline depends on. An
// editor plugin, the CLI or a test harness provides it; the pipeline
// never owns meshes, it only reads and writes snapshots of them.
type Host interface {
	Mode() scene.Mode
	SelectedObjects() []*scene.Object
	SetSelection([]*scene.Object)
	ActiveObject() *scene.Object
	SetActiveObject(*scene.Object)
	Children(parent *scene.Object) []*scene.Object
	Rename(o *scene.Object, name string)
	RemoveByPrefix(prefix string) []string
	UpsertCollection(name string)
	MoveToCollection(o *scene.Object, name string)
	ReparentKeepTransform(child, parent *scene.Object)
	SetMaterial(o *scene.Object, m scene.Material)
	ImportFile(path string) ([]*scene.Object, error)
}

// State is the pipeline's position in one run.
type State int

// Run states, in order. Failed is terminal and reachable from any state.
const (
	StateIdle State = iota
	StateValidated
	StateExported
	StateSolverRan
	StateImported
	StateReconciled
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "Idle",
	StateValidated:  "Validated",
	StateExported:   "Exported",
	StateSolverRan:  "SolverRan",
	StateImported:   "Imported",
	StateReconciled: "Reconciled",
	StateDone:       "Done",
	StateFailed:     "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Orchestrator drives decomposition runs against one host.
type Orchestrator struct {
	host  Host
	cfg   *config.Config
	rng   *rand.Rand
	state State
}

// New returns an orchestrator for the given host and configuration.
func New(host Host, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		host: host,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// State returns the state the last run ended in.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) to(next State) {
	logger.Sugar.Debugw("pipeline state", "from", o.state.String(), "to", next.String())
	o.state = next
}

func (o *Orchestrator) fail(err error) error {
	o.to(StateFailed)
	return err
}

// Run executes one full decomposition for the single selected object
// and returns the reconciled hulls in numbering order.
//
// Errors before the stale-hull removal leave the scene untouched.
// Errors after it leave the source object hull-less until a successful
// re-run; a failed run never leaves a partial hull set behind. The
// pre-call selection is restored on every exit path.
func (o *Orchestrator) Run() ([]*scene.Object, error) {
	guard := NewSelectionGuard(o.host, false)
	defer guard.Release()

	o.to(StateIdle)

	src, err := o.validate()
	if err != nil {
		return nil, o.fail(err)
	}
	o.to(StateValidated)
	logger.Sugar.Infow("computing collision hulls", "source", src.Name, "backend", o.cfg.Solver.Backend.String())

	// Replace-on-rerun: the previous hull set goes away before the new
	// one is computed, so two runs can never stack hulls.
	RemoveStaleHulls(o.host, src.Name)

	inputPath, err := o.exportSource(src)
	if err != nil {
		return nil, o.fail(err)
	}
	o.to(StateExported)

	req := o.buildRequest(inputPath)
	outputs, err := solver.Run(req, o.cfg.Solver.Binary())
	if err != nil {
		return nil, o.fail(err)
	}
	o.to(StateSolverRan)

	imported, err := o.importHulls(outputs, filepath.Dir(inputPath))
	if err != nil {
		return nil, o.fail(err)
	}
	o.to(StateImported)

	hulls := o.reconcile(src, imported)
	o.to(StateReconciled)

	o.to(StateDone)
	logger.Sugar.Infow("decomposition finished", "source", src.Name, "hulls", len(hulls))
	return hulls, nil
}

// validate checks the host preconditions and the solver binary. Nothing
// is mutated here; any error aborts with zero side effects.
func (o *Orchestrator) validate() (*scene.Object, error) {
	if o.host.Mode() != scene.ObjectMode {
		return nil, &PreconditionError{Msg: "must be in object mode"}
	}
	selected := o.host.SelectedObjects()
	if len(selected) != 1 {
		return nil, &PreconditionError{Msg: "must have exactly one object selected"}
	}
	if err := solver.CheckBinary(o.cfg.Solver.Backend, o.cfg.Solver.Binary()); err != nil {
		return nil, err
	}
	return selected[0], nil
}

// exportSource writes the source mesh, in world space, to a fresh
// temporary directory. The directory is unique per run and kept around
// afterwards so solver output can be inspected post mortem.
func (o *Orchestrator) exportSource(src *scene.Object) (string, error) {
	tmpDir, err := os.MkdirTemp("", "convdec-")
	if err != nil {
		return "", errors.Wrap(err, "creating solver working directory")
	}
	logger.Sugar.Debugw("created solver working directory", "dir", tmpDir)

	doc, err := obj.FromMesh(src.WorldMesh())
	if err != nil {
		return "", errors.Wrapf(err, "snapshotting %s", src.Name)
	}
	inputPath := filepath.Join(tmpDir, "src.obj")
	if err := doc.WriteFile(inputPath); err != nil {
		return "", errors.Wrapf(err, "exporting %s", src.Name)
	}
	return inputPath, nil
}

func (o *Orchestrator) buildRequest(inputPath string) *solver.Request {
	req := &solver.Request{
		Backend:   o.cfg.Solver.Backend,
		InputPath: inputPath,
	}
	if req.Backend == solver.CoACD {
		params := o.cfg.Solver.CoACD
		req.CoACD = &params
	} else {
		params := o.cfg.Solver.VHACD
		req.VHACD = &params
	}
	return req
}

// importHulls consolidates the solver output into a single document
// whose segments carry the temporary hull prefix, then imports it.
func (o *Orchestrator) importHulls(outputs []string, workDir string) ([]*scene.Object, error) {
	docs := make([]*obj.Document, 0, len(outputs))
	for _, path := range outputs {
		doc, err := obj.ParseFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	var importDoc *obj.Document
	if len(docs) == 1 {
		importDoc = docs[0]
		obj.RenameSegments(importDoc, o.cfg.Hulls.TmpPrefix)
	} else {
		merged, err := obj.Merge(docs, o.cfg.Hulls.TmpPrefix)
		if err != nil {
			return nil, err
		}
		importDoc = merged
	}

	// A solver may legitimately produce zero hulls; the run still
	// completes, leaving the source without a hull set.
	if len(importDoc.Segments) == 0 {
		return nil, nil
	}

	importPath := filepath.Join(workDir, "hulls_import.obj")
	if err := importDoc.WriteFile(importPath); err != nil {
		return nil, err
	}
	return o.host.ImportFile(importPath)
}

// reconcile renames the imported hulls to their final UCX names, groups
// them, parents them to the source without moving them, and gives each
// a random see-through colour for inspection.
func (o *Orchestrator) reconcile(src *scene.Object, imported []*scene.Object) []*scene.Object {
	o.host.UpsertCollection(o.cfg.Hulls.Collection)
	for i, hull := range imported {
		o.host.Rename(hull, HullName(src.Name, i))
		o.host.MoveToCollection(hull, o.cfg.Hulls.Collection)
		o.host.ReparentKeepTransform(hull, src)
		o.host.SetMaterial(hull, randomHullMaterial(o.rng, o.cfg.Hulls.Alpha))
	}
	return imported
}
