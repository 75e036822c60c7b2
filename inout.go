package di

import (
	"github.com/Stannieman/DI/internal/reflection"
)

// In marks a constructor parameter object. When a constructor takes a
// single struct parameter embedding In, every exported field of that struct
// is resolved as its own dependency:
//
//	type ReportParams struct {
//	    di.In
//
//	    Store   Store
//	    Cache   Cache        `name:"redis"`
//	    Sinks   []ReportSink
//	    Verbose bool         `inject:"-"`
//	}
//
//	func NewReporter(p ReportParams) *Reporter
//
// Supported field tags:
//   - `name:"key"` resolves the field under key
//   - `inject:"-"` leaves the field at its zero value
//
// The same tags apply to fields filled by property injection.
//
// In must be embedded anonymously:
//
//	type ReportParams struct {
//	    di.In  // ✓ Correct - anonymous embedding
//	    // ...
//	}
//
//	type ReportParams struct {
//	    In di.In  // ✗ Wrong - named field
//	    // ...
//	}
type In = reflection.In
