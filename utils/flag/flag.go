/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package

*/

package flag

import (
	"flag"
	"testing"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "name of the running service, attached to every log entry")
	// Parsing here during `go test` aborts the test binary: the -test.* flags
	// are not registered yet at package init time.
	if !testing.Testing() {
		flag.Parse()
	}
}
