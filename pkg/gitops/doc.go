// Package gitops publishes parameter files to a version-control remote
// by running the git binary as an external process, one subcommand per
// pipeline step (pull, add, commit, push).
//
// The pipeline is strictly sequential with no rollback. A commit that
// reports "nothing to commit" is treated as success so unchanged backups
// still complete cleanly; a failed push leaves the local commit to be
// resolved manually.
package gitops
