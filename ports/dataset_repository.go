package ports

import (
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
)

// DatasetStore owns the working Dataset. Implementations must treat each
// Dataset as immutable and swap the reference atomically.
type DatasetStore interface {
	Get() *dataset.Dataset
	Replace(ds *dataset.Dataset)
	Clear()

	// Two-phase loads guard against out-of-order responses
	Begin() core.LoadTicket
	Commit(t core.LoadTicket, ds *dataset.Dataset) error
}
