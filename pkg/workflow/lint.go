package workflow

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/project-causica/causica/pkg/lint"
)

// Lint parses a workflow file and checks it for the mistakes that only
// surface once a runner picks the file up. repoRoot is the directory the
// workflow would be checked out from; an empty root skips the checks that
// need to see the repository files.
func Lint(data []byte, repoRoot string) ([]lint.Finding, error) {
	wf, err := Parse(data)
	if err != nil {
		return []lint.Finding{lint.Errorf("parse", "%s", err)}, nil
	}

	var findings []lint.Finding

	if len(wf.On.Events) == 0 {
		findings = append(findings, lint.Errorf("trigger-required", "workflow has no trigger events"))
	}
	if len(wf.Jobs) == 0 {
		findings = append(findings, lint.Errorf("jobs-required", "workflow has no jobs"))
	}

	for _, name := range sortedJobNames(wf) {
		findings = append(findings, lintJob(wf, name, wf.Jobs[name], repoRoot)...)
	}
	return findings, nil
}

func sortedJobNames(wf *Workflow) []string {
	names := make([]string, 0, len(wf.Jobs))
	for name := range wf.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lintJob(wf *Workflow, name string, job Job, repoRoot string) []lint.Finding {
	var findings []lint.Finding

	if job.RunsOn == "" {
		findings = append(findings, lint.Errorf("runs-on-required", "job %q has no runs-on", name))
	}
	if len(job.Steps) == 0 {
		findings = append(findings, lint.Errorf("steps-required", "job %q has no steps", name))
	}

	for _, needed := range job.Needs {
		if _, ok := wf.Jobs[needed]; !ok {
			findings = append(findings, lint.Errorf("unknown-needs",
				"job %q needs %q, which is not a job of this workflow", name, needed))
		}
	}

	if job.Strategy != nil && job.Strategy.MaxParallel > 0 && job.Strategy.MatrixAxes() == 0 {
		findings = append(findings, lint.Warnf("max-parallel-without-matrix",
			"job %q sets max-parallel %d but defines no matrix axis, it runs as a single job",
			name, job.Strategy.MaxParallel))
	}

	stepIDs := map[string]bool{}
	for _, step := range job.Steps {
		if step.ID == "" {
			continue
		}
		if stepIDs[step.ID] {
			findings = append(findings, lint.Errorf("duplicate-step-id",
				"job %q declares step id %q twice", name, step.ID))
		}
		stepIDs[step.ID] = true
	}

	checkoutPath := checkoutPath(job)
	for _, step := range job.Steps {
		findings = append(findings, lintStep(name, step, stepIDs, repoRoot, checkoutPath)...)
	}
	return findings
}

// checkoutPath returns the path the checkout step places the repository at
func checkoutPath(job Job) string {
	for _, step := range job.Steps {
		if usesAction(step, "actions/checkout") {
			return step.WithString("path")
		}
	}
	return ""
}

func usesAction(step Step, action string) bool {
	return step.Uses == action || strings.HasPrefix(step.Uses, action+"@")
}

func lintStep(jobName string, step Step, stepIDs map[string]bool, repoRoot, checkoutPath string) []lint.Finding {
	var findings []lint.Finding

	if step.Uses == "" && step.Run == "" {
		findings = append(findings, lint.Errorf("empty-step",
			"job %q has a step with neither uses nor run", jobName))
	}

	if usesAction(step, "actions/cache") {
		key := step.WithString("key")
		if key == "" {
			findings = append(findings, lint.Errorf("cache-key-required",
				"job %q has a cache step without a key", jobName))
		}
		for _, hashed := range HashFilesArgs(key) {
			if repoRoot == "" {
				continue
			}
			if !hashedFileExists(repoRoot, checkoutPath, hashed) {
				findings = append(findings, lint.Errorf("cache-key-file-missing",
					"job %q keys its cache on %q but the file is not in the repository",
					jobName, hashed))
			}
		}
	}

	for _, id := range CacheHitRefs(step.If) {
		if !stepIDs[id] {
			findings = append(findings, lint.Errorf("unknown-step-output",
				"job %q reads cache-hit of step %q which has no such id", jobName, id))
		}
	}

	return findings
}

// hashedFileExists resolves a hashFiles path. The path is relative to the
// runner workspace, where the checkout step placed the repository under
// checkoutPath. Linting a repository directly there is no workspace, so the
// checkout prefix is stripped as a fallback.
func hashedFileExists(repoRoot, checkoutPath, hashed string) bool {
	if _, err := os.Stat(filepath.Join(repoRoot, hashed)); err == nil {
		return true
	}
	if checkoutPath != "" {
		stripped := strings.TrimPrefix(hashed, checkoutPath+"/")
		if stripped != hashed {
			if _, err := os.Stat(filepath.Join(repoRoot, stripped)); err == nil {
				return true
			}
		}
	}
	return false
}

