package ports

import "github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"

// Recorder persists acquired batches. Append calls originate from the
// single-threaded scheduler loop, so records land in call order. Ownership
// of the batch transfers to the recorder on Append.
type Recorder interface {
	Append(b *domain.SampleBatch) error
	Name() string
}
