package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/netman-network/netman/pkg/util"
)

// ExecConfig configures the runner that shells out to the automation tool.
type ExecConfig struct {
	PlaybookBin   string        // default "ansible-playbook"
	AdhocBin      string        // default "ansible"
	InventoryFile string        // default "data/ansible_inventory.yml"
	Timeout       time.Duration // per invocation; default 5m
	TempDir       string        // for extra-vars files; default os.TempDir()
}

// Default ExecConfig values.
const (
	DefaultPlaybookBin   = "ansible-playbook"
	DefaultAdhocBin      = "ansible"
	DefaultInventoryFile = "data/ansible_inventory.yml"
	DefaultExecTimeout   = 5 * time.Minute
)

// ExecRunner runs the real automation tool as a subprocess and maps its
// outcome onto Result.
type ExecRunner struct {
	cfg ExecConfig
}

// NewExecRunner creates a real-mode runner, filling defaults.
func NewExecRunner(cfg ExecConfig) *ExecRunner {
	if cfg.PlaybookBin == "" {
		cfg.PlaybookBin = DefaultPlaybookBin
	}
	if cfg.AdhocBin == "" {
		cfg.AdhocBin = DefaultAdhocBin
	}
	if cfg.InventoryFile == "" {
		cfg.InventoryFile = DefaultInventoryFile
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultExecTimeout
	}
	return &ExecRunner{cfg: cfg}
}

// Name implements Runner.
func (r *ExecRunner) Name() string { return string(ModeReal) }

// RunPlaybook implements Runner.
func (r *ExecRunner) RunPlaybook(ctx context.Context, playbook, targetHost string, extraVars map[string]any) *Result {
	log := util.WithInvocation(r.Name(), targetHost, playbook)

	if _, err := os.Stat(playbook); err != nil {
		return failure(fmt.Errorf("%w: %s", util.ErrPlaybookNotFound, playbook).Error())
	}

	vars := make(map[string]any, len(extraVars)+1)
	for k, v := range extraVars {
		vars[k] = v
	}
	if targetHost != "" {
		vars["target_host"] = targetHost
	}

	args := []string{"-i", r.cfg.InventoryFile, playbook}
	if len(vars) > 0 {
		varsFile, err := r.writeVarsFile(vars)
		if err != nil {
			return failure(err.Error())
		}
		defer os.Remove(varsFile)
		args = append(args, "-e", "@"+varsFile)
	}

	stdout, err := r.run(ctx, r.cfg.PlaybookBin, args)
	if err != nil {
		log.Warnf("playbook failed: %v", err)
		return failure(errorText(err))
	}
	return &Result{Success: true, Stdout: stdout}
}

// RunModule implements Runner. Module arguments are passed inline as JSON.
func (r *ExecRunner) RunModule(ctx context.Context, host, module string, moduleArgs map[string]any) *Result {
	log := util.WithInvocation(r.Name(), host, module)

	args := []string{host, "-i", r.cfg.InventoryFile, "-m", module}
	if len(moduleArgs) > 0 {
		data, err := json.Marshal(moduleArgs)
		if err != nil {
			return failure(fmt.Sprintf("encoding module args: %v", err))
		}
		args = append(args, "-a", string(data))
	}

	stdout, err := r.run(ctx, r.cfg.AdhocBin, args)
	if err != nil {
		// A failing module exits non-zero but still reports its reason on stdout.
		var invErr *util.InvocationError
		if errors.As(err, &invErr) {
			if res := parseAdhocOutput(stdout); !res.Success {
				log.Warnf("module reported failure: %s", res.Error)
				return res
			}
		}
		log.Warnf("module failed: %v", err)
		return failure(errorText(err))
	}

	res := parseAdhocOutput(stdout)
	if !res.Success {
		log.Warnf("module reported failure: %s", res.Error)
	}
	return res
}

func (r *ExecRunner) writeVarsFile(vars map[string]any) (string, error) {
	f, err := os.CreateTemp(r.cfg.TempDir, "netman-vars-*.json")
	if err != nil {
		return "", fmt.Errorf("creating extra vars file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(vars); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing extra vars file: %w", err)
	}
	return f.Name(), nil
}

// run executes bin with args under the configured timeout and returns stdout.
// A non-zero exit becomes *util.InvocationError; stdout is returned with it.
func (r *ExecRunner) run(ctx context.Context, bin string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%s: %w", bin, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), util.NewInvocationError(bin, args, exitErr.ExitCode(), stderr.String())
		}
		return "", fmt.Errorf("running %s: %w", bin, err)
	}
	return stdout.String(), nil
}

// errorText is the Result.Error for a failed run: the tool's stderr when it
// wrote any, otherwise the error itself.
func errorText(err error) string {
	var invErr *util.InvocationError
	if errors.As(err, &invErr) {
		if s := strings.TrimSpace(invErr.Stderr); s != "" {
			return s
		}
	}
	return err.Error()
}
