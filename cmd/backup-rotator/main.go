// backup-rotator keeps a rolling set of daily, weekly and monthly backups
// and removes the rest.
//
// Usage:
//
//	# Rotate the given files, reading timestamps from their names
//	backup-rotator rotate --format 'pg_%Y-%m-%d_%H-%M-%S.tar' /var/backups/pg_*.tar
//
//	# Show what would be removed from the configured source
//	backup-rotator rotate --config config.yaml --dry-run
//
//	# Watch the configured source and rotate on new backups or on schedule
//	backup-rotator daemon --config config.yaml
package main

func main() {
	Execute()
}
