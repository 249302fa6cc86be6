package solver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/meshforge/convdec/internal/logger"
)

// VHACD writes its result at a fixed name next to the input; CoACD is
// told where to write.
const (
	vhacdOutputName = "decomp.obj"
	coacdOutputName = "hulls.obj"
)

// MissingError means the configured solver binary is absent or unset.
// It is raised before anything is executed.
type MissingError struct {
	Backend Backend
	Path    string
}

func (e *MissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("solver: no %s binary configured", e.Backend)
	}
	return fmt.Sprintf("solver: %s binary not found at %s", e.Backend, e.Path)
}

// ExecutionError means the solver process exited non-zero.
type ExecutionError struct {
	Backend  Backend
	ExitCode int
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("solver: %s exited with code %d", e.Backend, e.ExitCode)
}

// CheckBinary verifies that a solver binary is configured and present.
// Callers run this up front so a misconfigured binary is caught before
// any scene or filesystem mutation.
func CheckBinary(b Backend, path string) error {
	if path == "" {
		return &MissingError{Backend: b}
	}
	if _, err := os.Stat(path); err != nil {
		return &MissingError{Backend: b, Path: path}
	}
	return nil
}

// Request describes one decomposition invocation. Exactly the parameter
// record matching the backend must be set; setting the other one (or
// neither) is a programming error and panics.
type Request struct {
	Backend   Backend
	InputPath string
	VHACD     *VHACDParams
	CoACD     *CoACDParams
}

func (r *Request) check() {
	switch r.Backend {
	case VHACD:
		if r.VHACD == nil || r.CoACD != nil {
			panic("solver: VHACD request must carry exactly VHACD parameters")
		}
	case CoACD:
		if r.CoACD == nil || r.VHACD != nil {
			panic("solver: CoACD request must carry exactly CoACD parameters")
		}
	default:
		panic(fmt.Sprintf("solver: unknown backend %q", r.Backend))
	}
}

// OutputPath returns the path the backend will write its result to.
func (r *Request) OutputPath() string {
	r.check()
	dir := filepath.Dir(r.InputPath)
	if r.Backend == VHACD {
		return filepath.Join(dir, vhacdOutputName)
	}
	return filepath.Join(dir, coacdOutputName)
}

// BuildCommand maps the request onto an argument list for the given
// binary. It is pure: no process is started, no filesystem is touched.
// Every parameter field maps to exactly one flag/value pair.
func BuildCommand(req *Request, binary string) []string {
	req.check()

	if req.Backend == VHACD {
		p := req.VHACD
		boolArg := func(b bool) string {
			if b {
				return "true"
			}
			return "false"
		}
		return []string{
			binary,
			req.InputPath,
			"-r", strconv.Itoa(p.VoxelResolution),
			"-d", strconv.Itoa(p.MaxRecursionDepth),
			"-v", strconv.Itoa(p.MaxHullVertCount),
			"-l", strconv.Itoa(p.MinEdgeLength),
			"-e", strconv.FormatFloat(p.VolumeErrorPct, 'g', -1, 64),
			"-s", boolArg(p.Shrinkwrap),
			"-p", boolArg(p.OptimalSplit),
			// VHACD always runs with internal parallelism and logging.
			"-a", "true",
			"-g", "true",
			"-f", string(p.FillMode),
		}
	}

	p := req.CoACD
	args := []string{
		binary,
		"--input", req.InputPath,
		"--output", req.OutputPath(),
		"--threshold", strconv.FormatFloat(p.Threshold, 'g', -1, 64),
		"-k", strconv.FormatFloat(p.K, 'g', -1, 64),
		"--mcts-iteration", strconv.Itoa(p.MCTSIterations),
		"--mcts-depth", strconv.Itoa(p.MCTSDepth),
		"--mcts-node", strconv.Itoa(p.MCTSNode),
		"--prep-resolution", strconv.Itoa(p.PrepResolution),
		"--resolution", strconv.Itoa(p.Resolution),
	}
	if p.PCA {
		args = append(args, "--pca")
	}
	if !p.Preprocess {
		args = append(args, "--no-preprocess")
	}
	if !p.Merge {
		args = append(args, "--no-merge")
	}
	return args
}

// Run validates the request, executes the solver and returns the output
// files it produced, in deterministic order. The binary is checked for
// existence before anything else runs. Solver stdout/stderr is logged
// verbatim and never interpreted; only the exit code and the declared
// output paths decide success.
func Run(req *Request, binary string) ([]string, error) {
	req.check()
	if err := validateParams(req); err != nil {
		return nil, err
	}

	if err := CheckBinary(req.Backend, binary); err != nil {
		return nil, err
	}

	args := BuildCommand(req, binary)
	logger.Sugar.Infow("running solver",
		"backend", req.Backend.String(),
		"command", args,
	)

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = filepath.Dir(req.InputPath)
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		logger.Sugar.Debugw("solver output", "backend", req.Backend.String(), "output", string(output))
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, &ExecutionError{Backend: req.Backend, ExitCode: exitErr.ExitCode()}
		}
		return nil, errors.Wrapf(err, "solver: starting %s", req.Backend)
	}

	files, err := outputFiles(req)
	if err != nil {
		return nil, err
	}
	logger.Sugar.Infow("solver finished", "backend", req.Backend.String(), "outputs", files)
	return files, nil
}

func validateParams(req *Request) error {
	if req.Backend == VHACD {
		return req.VHACD.Validate()
	}
	return req.CoACD.Validate()
}

// outputFiles resolves the files the solver wrote. CoACD writes exactly
// the requested file. Some VHACD builds split the result across
// numbered siblings of decomp.obj, so those are collected too.
func outputFiles(req *Request) ([]string, error) {
	primary := req.OutputPath()
	if _, err := os.Stat(primary); err != nil {
		return nil, errors.Wrapf(err, "solver: %s reported success but wrote no output", req.Backend)
	}
	if req.Backend == CoACD {
		return []string{primary}, nil
	}

	pattern := filepath.Join(filepath.Dir(primary), "decomp*.obj")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "solver: globbing output files")
	}
	sort.Strings(matches)

	// Keep the primary file first so hull numbering is reproducible.
	files := []string{primary}
	for _, m := range matches {
		if m != primary {
			files = append(files, m)
		}
	}
	return files, nil
}
