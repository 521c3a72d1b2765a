package scanner

import "time"

// Stats summarizes one Scan call.
type Stats struct {
	Scanned   int           `json:"scanned"`   // parsed and stored
	Unchanged int           `json:"unchanged"` // content hash matched the stored record
	Removed   int           `json:"removed"`   // unreadable, dropped from the store
	Failed    int           `json:"failed"`    // parse errors in strict mode
	Duration  time.Duration `json:"duration"`
}

// Total is the number of files the scan looked at.
func (s Stats) Total() int {
	return s.Scanned + s.Unchanged + s.Removed + s.Failed
}

// ProgressReporter provides callbacks for reporting scan progress.
// OnFileScanned may be called from several goroutines at once.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnScanStart is called before each wave of files. Imported files found
	// while scanning arrive in later waves.
	OnScanStart(files int)

	// OnFileScanned is called after each file is processed.
	OnFileScanned(path string)

	// OnComplete is called when a scan finishes, with or without errors.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryStart()         {}
func (NoOpProgressReporter) OnDiscoveryComplete(int)   {}
func (NoOpProgressReporter) OnScanStart(int)           {}
func (NoOpProgressReporter) OnFileScanned(string)      {}
func (NoOpProgressReporter) OnComplete(*Stats)         {}
