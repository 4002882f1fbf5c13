package checkpoint

// Store loads and saves the checkpoint of a source folder
type Store interface {
	// Load never fails: an absent or unreadable record is the empty Checkpoint.
	Load(folder string) Checkpoint
	// Save is best-effort: failures are logged, never returned.
	Save(folder string, cp Checkpoint)
	// Lock serialises work on one folder inside this process.
	Lock(folder string) (unlock func())
}
