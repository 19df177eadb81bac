package models

// ApplyProgress merges a logged entry into a progress list. An existing
// entry for the same date is summed into, or overwritten when replace is
// true; a new date is appended. The list never holds two entries for one
// date.
func ApplyProgress(progress []ProgressEntry, entry ProgressEntry, replace bool) []ProgressEntry {
	for i := range progress {
		if progress[i].Date == entry.Date {
			if replace {
				progress[i].Completed = entry.Completed
			} else {
				progress[i].Completed += entry.Completed
			}
			return progress
		}
	}
	return append(progress, entry)
}
