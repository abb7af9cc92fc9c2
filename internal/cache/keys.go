package cache

// JobStatusKey builds the cache key for a job's status.
func JobStatusKey(jobID string) string {
	return "job:status:" + jobID
}
