package executor

import (
	"CatalogDB/dberr"
	"fmt"
)

// PrintError reports a failed statement. Failures that need an operator are
// logged as well.
func (e *Executor) PrintError(err error) {
	fmt.Fprintf(e.out, "Error: %v\n", err)
	if dberr.KindOf(err).Category() == dberr.CategorySystem && dberr.KindOf(err) != dberr.KindUnknown {
		e.log.Error("statement failed", "error", err)
	}
}
