package domain

// Outcome is the result of downloading one URL
type Outcome struct {
	URL   string
	Title string
	Files []string
	Err   error
}

// Succeeded reports whether the URL produced at least one file without error
func (o Outcome) Succeeded() bool {
	return o.Err == nil && len(o.Files) > 0
}

// Count is the contribution of this outcome to the success total.
// A single video counts 1, a playlist expanded by the extractor counts each file.
func (o Outcome) Count() int {
	if !o.Succeeded() {
		return 0
	}
	return len(o.Files)
}

// BatchResult aggregates the outcomes of a sequence of URLs
type BatchResult struct {
	Outcomes []Outcome
}

// Add appends an outcome
func (b *BatchResult) Add(o Outcome) {
	b.Outcomes = append(b.Outcomes, o)
}

// Attempted returns how many URLs reached the downloader
func (b BatchResult) Attempted() int {
	return len(b.Outcomes)
}

// Downloaded returns the sum of outcome counts
func (b BatchResult) Downloaded() int {
	total := 0
	for _, o := range b.Outcomes {
		total += o.Count()
	}
	return total
}

// Failed returns the outcomes that did not succeed
func (b BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range b.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}
