package loopprof

import "log"

var Logger *log.Logger

// NullWriter simply sends writes into the void
type NullWriter struct{}

// Write is empty
func (NullWriter) Write(data []byte) (n int, err error) {
	return 0, nil
}

func init() {
	Logger = log.New(NullWriter{}, "", 0)
}

// SetLogger directs the library's diagnostics to the given logger. The
// library is silent by default; on the success path nothing is ever written
// to stdout or stderr.
func SetLogger(l *log.Logger) {
	Logger = l
}
