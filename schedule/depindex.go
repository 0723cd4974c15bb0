package schedule

import "sort"

// DependencyIndex is the pure graph bookkeeping over dependency jobs: which
// dependency jobs hang off a given parent, and which become ready once a
// set of parents has completed. The trigger engine that reacts to job
// completions consumes this index; it is rebuilt from the registry and
// holds no mutable state of its own.
type DependencyIndex struct {
	children map[string][]string // parent name -> dependent job names
	parents  map[string][]string // dependency job name -> parent names
}

// BuildDependencyIndex indexes the dependency jobs in the given set.
func BuildDependencyIndex(jobs []Job) *DependencyIndex {
	idx := &DependencyIndex{
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
	for _, job := range jobs {
		dep, ok := job.(DependencyJob)
		if !ok {
			continue
		}
		idx.parents[dep.Name] = append([]string(nil), dep.Parents...)
		for _, parent := range dep.Parents {
			idx.children[parent] = append(idx.children[parent], dep.Name)
		}
	}
	for parent := range idx.children {
		sort.Strings(idx.children[parent])
	}
	return idx
}

// Children returns the dependency jobs triggered by the given parent,
// sorted by name.
func (idx *DependencyIndex) Children(parent string) []string {
	return idx.children[parent]
}

// Parents returns the parent set of a dependency job.
func (idx *DependencyIndex) Parents(name string) []string {
	return idx.parents[name]
}

// ReadyDependencyJobs returns the dependency jobs in the registry whose
// parents have all completed their most recent execution, sorted by name.
// A parent whose latest run failed, or that never ran, does not count.
func ReadyDependencyJobs(store *Store, executions *ExecutionStore) ([]string, error) {
	jobs, err := store.ListJobs()
	if err != nil {
		return nil, err
	}

	completed := make(map[string]bool)
	for _, job := range jobs {
		execs, err := executions.ListExecutions(job.JobName(), 1)
		if err != nil {
			return nil, err
		}
		if len(execs) > 0 && execs[0].Status == ExecutionStatusCompleted {
			completed[job.JobName()] = true
		}
	}

	return BuildDependencyIndex(jobs).Ready(completed), nil
}

// Ready returns the dependency jobs whose parents have all completed,
// sorted by name.
func (idx *DependencyIndex) Ready(completed map[string]bool) []string {
	var ready []string
	for name, parents := range idx.parents {
		all := true
		for _, parent := range parents {
			if !completed[parent] {
				all = false
				break
			}
		}
		if all {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	return ready
}
