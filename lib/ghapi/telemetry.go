package ghapi

import (
	"tidytuesday-go/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("tidytuesday.ghapi")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput sets the destination for http transcripts of
// clients created afterward. Intended for debugging sessions, leave unset
// in normal operation.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}
