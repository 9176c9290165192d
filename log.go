package collidesim

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// fatalLogger holds the logger used to record fatal invariant violations
// immediately before classify/solve panic (§10). It is package-level rather
// than threaded through classify/classifyPair/solve's call chains because
// those functions are exercised directly by the algorithmic test suite with
// fixed signatures; NewWorld installs the World's logger here at
// construction time, which is sufficient for a panic path that is never
// expected to fire outside a programmer error.
var fatalLogger atomic.Pointer[zap.Logger]

func init() {
	fatalLogger.Store(zap.NewNop())
}

// setFatalLogger installs l as the logger used by logFatalInvariant. A nil l
// installs a no-op logger instead.
func setFatalLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	fatalLogger.Store(l)
}

// logFatalInvariant records msg at DPanic level immediately before a caller
// panics on an invariant violation (§10). In a development logger this call
// itself panics; in production it logs and returns, and the caller's own
// panic follows.
func logFatalInvariant(msg string, fields ...zap.Field) {
	fatalLogger.Load().DPanic(msg, fields...)
}
